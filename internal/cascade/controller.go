package cascade

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/pktikkani/forecastio/internal/api"
	"github.com/pktikkani/forecastio/internal/models"
	"github.com/pktikkani/forecastio/internal/session"
)

// Fetcher is the backend surface the controller drives. *api.Client
// satisfies it.
type Fetcher interface {
	ListCustomers(ctx context.Context, token string) ([]models.Customer, error)
	ListLocations(ctx context.Context, token string, customerID int64) ([]models.Location, error)
	ListMenuItems(ctx context.Context, token string, locationID int64) ([]models.MenuItem, error)
}

// Selection is the ephemeral three-level selection plus the forecast range.
type Selection struct {
	CustomerID int64
	LocationID int64
	MenuID     int64
	DayRange   int
}

// Controller keeps the customer -> location -> menu selection consistent.
// Each selection level carries a generation counter; a fetch issued at
// generation g applies its result only while the level is still at g, so the
// latest selection always wins no matter when responses arrive. In-flight
// requests are never cancelled, their results are just discarded.
type Controller struct {
	fetcher Fetcher
	session *session.Store
	logger  *zap.Logger

	mu                 sync.Mutex
	customers          []models.Customer
	locations          []models.Location
	menu               []models.MenuItem
	selectedCustomerID int64
	selectedLocationID int64
	menuLocationID     int64
	selectedMenuID     int64
	dayRange           int

	locationGen uint64
	menuGen     uint64

	menuLoading         bool
	allLocationsLoading bool
	allMenusLoading     bool

	menuObservers []func([]models.MenuItem)
	pending       sync.WaitGroup
}

// New builds a controller around the given fetcher and session. The
// controller subscribes to the session store and drops all held data the
// moment the credential goes away.
func New(fetcher Fetcher, sess *session.Store, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		fetcher:  fetcher,
		session:  sess,
		logger:   logger,
		dayRange: 1,
	}
	sess.Subscribe(func(snap session.Snapshot) {
		if !snap.LoggedIn() {
			c.reset()
		}
	})
	return c
}

// reset clears every level and invalidates in-flight fetches.
func (c *Controller) reset() {
	c.mu.Lock()
	c.customers = nil
	c.locations = nil
	c.menu = nil
	c.selectedCustomerID = 0
	c.selectedLocationID = 0
	c.menuLocationID = 0
	c.selectedMenuID = 0
	c.locationGen++
	c.menuGen++
	c.menuLoading = false
	c.mu.Unlock()
}

// LoadCustomers fetches the session's customer list and applies the initial
// selection rule.
func (c *Controller) LoadCustomers(ctx context.Context) ([]models.Customer, error) {
	token := c.session.Token()
	if token == "" {
		return nil, api.ErrNotAuthenticated
	}

	customers, err := c.fetcher.ListCustomers(ctx, token)
	if err != nil {
		c.logger.Error("failed to load customers", zap.Error(err))
		return nil, err
	}
	c.SetCustomers(ctx, customers)
	return customers, nil
}

// SetCustomers replaces the known customer list. When the list first becomes
// non-empty the first customer is auto-selected, cascading into its
// locations and menu. An empty list leaves every downstream level empty.
func (c *Controller) SetCustomers(ctx context.Context, customers []models.Customer) {
	c.mu.Lock()
	hadSelection := c.selectedCustomerID != 0
	c.customers = customers
	c.mu.Unlock()

	if !hadSelection && len(customers) > 0 {
		if _, err := c.SelectCustomer(ctx, customers[0].ID); err != nil {
			c.logger.Warn("initial customer selection failed", zap.Error(err))
		}
	}
}

// SelectCustomer records the customer as selected and loads its locations.
// A non-empty result makes the first location both the selected location and
// the menu location; an empty result clears the downstream levels. The
// fetched list is returned so callers can chain on it (newly created records
// adopt the first available parent this way).
func (c *Controller) SelectCustomer(ctx context.Context, customerID int64) ([]models.Location, error) {
	token := c.session.Token()
	if token == "" {
		return nil, api.ErrNotAuthenticated
	}

	c.mu.Lock()
	c.selectedCustomerID = customerID
	c.locationGen++
	gen := c.locationGen
	c.mu.Unlock()

	locations, err := c.fetcher.ListLocations(ctx, token, customerID)
	if err != nil {
		c.logger.Error("failed to load locations",
			zap.Int64("customer_id", customerID), zap.Error(err))
		c.applyLocations(ctx, gen, nil)
		return nil, err
	}

	c.applyLocations(ctx, gen, locations)
	return locations, nil
}

// applyLocations installs a location fetch result unless a newer selection
// or a logout made it stale.
func (c *Controller) applyLocations(ctx context.Context, gen uint64, locations []models.Location) {
	if c.session.Token() == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.locationGen {
		return
	}

	c.locations = locations
	if len(locations) > 0 {
		c.selectedLocationID = locations[0].ID
		c.setMenuLocationLocked(ctx, locations[0].ID)
		return
	}

	c.selectedLocationID = 0
	c.menuLocationID = 0
	c.selectedMenuID = 0
	c.menu = nil
	c.menuGen++ // invalidate any in-flight menu fetch
}

// SelectLocation records the location as selected and makes it the menu
// location, which triggers the menu refetch. No menu item is auto-selected.
func (c *Controller) SelectLocation(ctx context.Context, locationID int64) error {
	if c.session.Token() == "" {
		return api.ErrNotAuthenticated
	}

	c.mu.Lock()
	c.selectedLocationID = locationID
	c.setMenuLocationLocked(ctx, locationID)
	c.mu.Unlock()
	return nil
}

// setMenuLocationLocked updates the menu location and starts the refetch.
// Callers must hold c.mu.
func (c *Controller) setMenuLocationLocked(ctx context.Context, locationID int64) {
	c.menuLocationID = locationID
	c.selectedMenuID = 0
	c.menuGen++
	c.menuLoading = true
	gen := c.menuGen

	c.pending.Add(1)
	go c.refreshMenu(ctx, gen, locationID)
}

func (c *Controller) refreshMenu(ctx context.Context, gen uint64, locationID int64) {
	defer c.pending.Done()

	token := c.session.Token()
	if token == "" {
		c.finishMenu(gen, nil, false)
		return
	}

	items, err := c.fetcher.ListMenuItems(ctx, token, locationID)
	if err != nil {
		c.logger.Error("failed to load menu items",
			zap.Int64("location_id", locationID), zap.Error(err))
		items = nil
	}
	c.finishMenu(gen, items, true)
}

func (c *Controller) finishMenu(gen uint64, items []models.MenuItem, apply bool) {
	if c.session.Token() == "" {
		apply = false
	}

	c.mu.Lock()
	if gen != c.menuGen {
		c.mu.Unlock()
		return
	}
	c.menuLoading = false
	var observers []func([]models.MenuItem)
	if apply {
		c.menu = items
		observers = make([]func([]models.MenuItem), len(c.menuObservers))
		copy(observers, c.menuObservers)
	}
	c.mu.Unlock()

	for _, fn := range observers {
		fn(items)
	}
}

// SelectMenu records the menu item driving uploads, training and forecasts.
func (c *Controller) SelectMenu(menuID int64) {
	c.mu.Lock()
	c.selectedMenuID = menuID
	c.mu.Unlock()
}

// SetDayRange sets the forecast horizon in days.
func (c *Controller) SetDayRange(days int) error {
	if days < 1 {
		return fmt.Errorf("cascade: day range must be positive, got %d", days)
	}
	c.mu.Lock()
	c.dayRange = days
	c.mu.Unlock()
	return nil
}

// OnMenuChange registers an observer invoked whenever a menu list is applied.
func (c *Controller) OnMenuChange(fn func([]models.MenuItem)) {
	c.mu.Lock()
	c.menuObservers = append(c.menuObservers, fn)
	c.mu.Unlock()
}

// Wait blocks until background menu refetches settle.
func (c *Controller) Wait() {
	c.pending.Wait()
}

// FetchAllLocations loads every known customer's locations into one flat
// list for dashboard counts. Sub-fetches are isolated: a failing customer
// contributes zero items and the pass still completes. Only a failure to
// enumerate the customer list itself aborts with an error.
func (c *Controller) FetchAllLocations(ctx context.Context) ([]models.Location, error) {
	token := c.session.Token()
	if token == "" {
		return nil, api.ErrNotAuthenticated
	}

	c.mu.Lock()
	c.allLocationsLoading = true
	customers := make([]models.Customer, len(c.customers))
	copy(customers, c.customers)
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.allLocationsLoading = false
		c.mu.Unlock()
	}()

	if len(customers) == 0 {
		list, err := c.fetcher.ListCustomers(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("cascade: enumerate customers: %w", err)
		}
		customers = list
	}

	all := make([]models.Location, 0)
	for _, customer := range customers {
		locations, err := c.fetcher.ListLocations(ctx, token, customer.ID)
		if err != nil {
			c.logger.Warn("aggregate skipping customer",
				zap.Int64("customer_id", customer.ID), zap.Error(err))
			continue
		}
		all = append(all, locations...)
	}
	return all, nil
}

// FetchAllMenuItems loads the menus of every known location into one flat
// list, with the same per-item isolation as FetchAllLocations.
func (c *Controller) FetchAllMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	token := c.session.Token()
	if token == "" {
		return nil, api.ErrNotAuthenticated
	}

	c.mu.Lock()
	c.allMenusLoading = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.allMenusLoading = false
		c.mu.Unlock()
	}()

	locations, err := c.FetchAllLocations(ctx)
	if err != nil {
		return nil, err
	}

	all := make([]models.MenuItem, 0)
	for _, location := range locations {
		items, err := c.fetcher.ListMenuItems(ctx, token, location.ID)
		if err != nil {
			c.logger.Warn("aggregate skipping location",
				zap.Int64("location_id", location.ID), zap.Error(err))
			continue
		}
		all = append(all, items...)
	}
	return all, nil
}

// Customers returns the known customer list.
func (c *Controller) Customers() []models.Customer {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Customer, len(c.customers))
	copy(out, c.customers)
	return out
}

// Locations returns the selected customer's location list.
func (c *Controller) Locations() []models.Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Location, len(c.locations))
	copy(out, c.locations)
	return out
}

// Menu returns the menu list of the current menu location.
func (c *Controller) Menu() []models.MenuItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.MenuItem, len(c.menu))
	copy(out, c.menu)
	return out
}

// MenuLocationID returns the location currently driving menu fetches, zero
// when unset.
func (c *Controller) MenuLocationID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.menuLocationID
}

// MenuLoading reports whether a menu refetch is in flight.
func (c *Controller) MenuLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.menuLoading
}

// AllLocationsLoading reports whether a location aggregate pass is running.
func (c *Controller) AllLocationsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.allLocationsLoading
}

// AllMenusLoading reports whether a menu aggregate pass is running.
func (c *Controller) AllMenusLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.allMenusLoading
}

// CurrentSelection returns the selection snapshot.
func (c *Controller) CurrentSelection() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Selection{
		CustomerID: c.selectedCustomerID,
		LocationID: c.selectedLocationID,
		MenuID:     c.selectedMenuID,
		DayRange:   c.dayRange,
	}
}
