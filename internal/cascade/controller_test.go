package cascade

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pktikkani/forecastio/internal/api"
	"github.com/pktikkani/forecastio/internal/models"
	"github.com/pktikkani/forecastio/internal/session"
)

// fakeFetcher serves canned lists and can hold individual fetches on gate
// channels to force response reordering.
type fakeFetcher struct {
	mu           sync.Mutex
	customers    []models.Customer
	customersErr error

	locations    map[int64][]models.Location
	locationErr  map[int64]error
	locationSeen map[int64]chan struct{}
	locationGate map[int64]chan struct{}

	menus    map[int64][]models.MenuItem
	menuErr  map[int64]error
	menuSeen map[int64]chan struct{}
	menuGate map[int64]chan struct{}

	onLocations func(customerID int64)
	onMenus     func(locationID int64)
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		locations:    make(map[int64][]models.Location),
		locationErr:  make(map[int64]error),
		locationSeen: make(map[int64]chan struct{}),
		locationGate: make(map[int64]chan struct{}),
		menus:        make(map[int64][]models.MenuItem),
		menuErr:      make(map[int64]error),
		menuSeen:     make(map[int64]chan struct{}),
		menuGate:     make(map[int64]chan struct{}),
	}
}

func (f *fakeFetcher) ListCustomers(ctx context.Context, token string) ([]models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.customersErr != nil {
		return nil, f.customersErr
	}
	return f.customers, nil
}

func (f *fakeFetcher) ListLocations(ctx context.Context, token string, customerID int64) ([]models.Location, error) {
	f.mu.Lock()
	seen := f.locationSeen[customerID]
	gate := f.locationGate[customerID]
	callback := f.onLocations
	f.mu.Unlock()

	if callback != nil {
		callback(customerID)
	}
	if seen != nil {
		close(seen)
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.locationErr[customerID]; err != nil {
		return nil, err
	}
	return f.locations[customerID], nil
}

func (f *fakeFetcher) ListMenuItems(ctx context.Context, token string, locationID int64) ([]models.MenuItem, error) {
	f.mu.Lock()
	seen := f.menuSeen[locationID]
	gate := f.menuGate[locationID]
	callback := f.onMenus
	f.mu.Unlock()

	if callback != nil {
		callback(locationID)
	}
	if seen != nil {
		close(seen)
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.menuErr[locationID]; err != nil {
		return nil, err
	}
	return f.menus[locationID], nil
}

func loggedInSession() *session.Store {
	store := session.NewStore(nil, nil)
	store.SetAuth("tok-test", "test@diner.test")
	return store
}

func awaitSeen(t *testing.T, ch chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for fetch to start")
	}
}

func TestSelectCustomerCascadesToFirstLocation(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.locations[1] = []models.Location{
		{ID: 10, Name: "Downtown", CustomerID: 1},
		{ID: 11, Name: "Airport", CustomerID: 1},
	}
	fetcher.menus[10] = []models.MenuItem{{ID: 100, Name: "Espresso", LocationID: 10}}

	ctrl := New(fetcher, loggedInSession(), nil)
	locations, err := ctrl.SelectCustomer(context.Background(), 1)
	if err != nil {
		t.Fatalf("SelectCustomer returned error: %v", err)
	}
	if len(locations) != 2 {
		t.Fatalf("returned list should carry both locations, got %d", len(locations))
	}
	ctrl.Wait()

	sel := ctrl.CurrentSelection()
	if sel.CustomerID != 1 || sel.LocationID != 10 {
		t.Fatalf("selection = %+v, want customer 1 / location 10", sel)
	}
	if ctrl.MenuLocationID() != 10 {
		t.Fatalf("menu location = %d, want 10", ctrl.MenuLocationID())
	}
	menu := ctrl.Menu()
	if len(menu) != 1 || menu[0].ID != 100 {
		t.Fatalf("menu = %+v, want the first location's menu", menu)
	}
}

func TestSelectCustomerWithZeroLocations(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.locations[1] = nil

	ctrl := New(fetcher, loggedInSession(), nil)
	locations, err := ctrl.SelectCustomer(context.Background(), 1)
	if err != nil {
		t.Fatalf("SelectCustomer returned error: %v", err)
	}
	if len(locations) != 0 {
		t.Fatalf("expected empty list, got %+v", locations)
	}
	ctrl.Wait()

	if got := ctrl.Locations(); len(got) != 0 {
		t.Fatalf("location list should be empty, got %+v", got)
	}
	if ctrl.MenuLocationID() != 0 {
		t.Fatalf("menu location must stay unset, got %d", ctrl.MenuLocationID())
	}
	if menu := ctrl.Menu(); len(menu) != 0 {
		t.Fatalf("menu should be empty, got %+v", menu)
	}
}

// TestLaterCustomerSelectionWins selects customer 1, holds its location
// response, selects customer 2 and only then releases customer 1's stale
// response. The final state must reflect customer 2 only.
func TestLaterCustomerSelectionWins(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.locations[1] = []models.Location{{ID: 10, CustomerID: 1}}
	fetcher.locations[2] = []models.Location{{ID: 20, CustomerID: 2}}
	fetcher.locationSeen[1] = make(chan struct{})
	fetcher.locationGate[1] = make(chan struct{})

	ctrl := New(fetcher, loggedInSession(), nil)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		ctrl.SelectCustomer(ctx, 1)
	}()
	awaitSeen(t, fetcher.locationSeen[1])

	if _, err := ctrl.SelectCustomer(ctx, 2); err != nil {
		t.Fatalf("SelectCustomer(2) returned error: %v", err)
	}

	close(fetcher.locationGate[1])
	<-done
	ctrl.Wait()

	locations := ctrl.Locations()
	if len(locations) != 1 || locations[0].CustomerID != 2 {
		t.Fatalf("location list = %+v, want customer 2's locations only", locations)
	}
	if sel := ctrl.CurrentSelection(); sel.CustomerID != 2 || sel.LocationID != 20 {
		t.Fatalf("selection = %+v, want customer 2 / location 20", sel)
	}
	if ctrl.MenuLocationID() != 20 {
		t.Fatalf("menu location = %d, want 20", ctrl.MenuLocationID())
	}
}

// TestStaleMenuResponseDiscarded holds location A's menu response, switches
// to location B, then releases A. B's menu must survive.
func TestStaleMenuResponseDiscarded(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.locations[1] = []models.Location{
		{ID: 11, CustomerID: 1},
		{ID: 12, CustomerID: 1},
	}
	fetcher.menus[11] = []models.MenuItem{{ID: 110, Name: "Stale", LocationID: 11}}
	fetcher.menus[12] = []models.MenuItem{{ID: 120, Name: "Fresh", LocationID: 12}}
	fetcher.menuSeen[11] = make(chan struct{})
	fetcher.menuGate[11] = make(chan struct{})
	fetcher.menuSeen[12] = make(chan struct{})

	ctrl := New(fetcher, loggedInSession(), nil)
	ctx := context.Background()

	// selecting the customer auto-selects location 11, whose menu fetch blocks
	if _, err := ctrl.SelectCustomer(ctx, 1); err != nil {
		t.Fatalf("SelectCustomer returned error: %v", err)
	}
	awaitSeen(t, fetcher.menuSeen[11])

	if err := ctrl.SelectLocation(ctx, 12); err != nil {
		t.Fatalf("SelectLocation returned error: %v", err)
	}
	awaitSeen(t, fetcher.menuSeen[12])

	close(fetcher.menuGate[11])
	ctrl.Wait()

	menu := ctrl.Menu()
	if len(menu) != 1 || menu[0].LocationID != 12 {
		t.Fatalf("menu = %+v, want location 12's menu only", menu)
	}
	if ctrl.MenuLoading() {
		t.Fatal("menu loading flag should be cleared")
	}
}

func TestInitialSelectionOnFirstNonEmptyCustomerList(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.customers = []models.Customer{{ID: 5, Name: "First"}, {ID: 6, Name: "Second"}}
	fetcher.locations[5] = []models.Location{{ID: 50, CustomerID: 5}}
	fetcher.menus[50] = []models.MenuItem{{ID: 500, LocationID: 50}}

	ctrl := New(fetcher, loggedInSession(), nil)
	if _, err := ctrl.LoadCustomers(context.Background()); err != nil {
		t.Fatalf("LoadCustomers returned error: %v", err)
	}
	ctrl.Wait()

	if sel := ctrl.CurrentSelection(); sel.CustomerID != 5 || sel.LocationID != 50 {
		t.Fatalf("selection = %+v, want auto-selected first customer", sel)
	}
}

func TestLoadersRefuseWhileLoggedOut(t *testing.T) {
	ctrl := New(newFakeFetcher(), session.NewStore(nil, nil), nil)
	ctx := context.Background()

	if _, err := ctrl.LoadCustomers(ctx); !errors.Is(err, api.ErrNotAuthenticated) {
		t.Fatalf("LoadCustomers error = %v, want ErrNotAuthenticated", err)
	}
	if _, err := ctrl.SelectCustomer(ctx, 1); !errors.Is(err, api.ErrNotAuthenticated) {
		t.Fatalf("SelectCustomer error = %v, want ErrNotAuthenticated", err)
	}
	if _, err := ctrl.FetchAllLocations(ctx); !errors.Is(err, api.ErrNotAuthenticated) {
		t.Fatalf("FetchAllLocations error = %v, want ErrNotAuthenticated", err)
	}
}

// TestLogoutDiscardsInFlightResult clears the credential while a location
// fetch is held; the resolving result must not be applied.
func TestLogoutDiscardsInFlightResult(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.locations[1] = []models.Location{{ID: 10, CustomerID: 1}}
	fetcher.locationSeen[1] = make(chan struct{})
	fetcher.locationGate[1] = make(chan struct{})

	sess := loggedInSession()
	ctrl := New(fetcher, sess, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		ctrl.SelectCustomer(context.Background(), 1)
	}()
	awaitSeen(t, fetcher.locationSeen[1])

	sess.Clear()
	close(fetcher.locationGate[1])
	<-done
	ctrl.Wait()

	if got := ctrl.Locations(); len(got) != 0 {
		t.Fatalf("no data may be shown for a logged-out session, got %+v", got)
	}
	if ctrl.MenuLocationID() != 0 {
		t.Fatalf("menu location should be unset after logout, got %d", ctrl.MenuLocationID())
	}
}

func TestAggregateLocationsIsolatesFailingCustomer(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.customers = []models.Customer{{ID: 1}, {ID: 2}, {ID: 3}}
	fetcher.locations[1] = []models.Location{{ID: 10, CustomerID: 1}, {ID: 11, CustomerID: 1}}
	fetcher.locationErr[2] = errors.New("boom")
	fetcher.locations[3] = []models.Location{{ID: 30, CustomerID: 3}}

	ctrl := New(fetcher, loggedInSession(), nil)

	var flagDuringFetch []bool
	fetcher.onLocations = func(int64) {
		flagDuringFetch = append(flagDuringFetch, ctrl.AllLocationsLoading())
	}

	all, err := ctrl.FetchAllLocations(context.Background())
	if err != nil {
		t.Fatalf("FetchAllLocations returned error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("aggregate = %d locations, want the 3 from non-failing customers", len(all))
	}
	for _, observed := range flagDuringFetch {
		if !observed {
			t.Fatal("loading flag must be set for the whole aggregate pass")
		}
	}
	if ctrl.AllLocationsLoading() {
		t.Fatal("loading flag must be cleared after the pass")
	}
}

func TestAggregateMenusIsolatesFailingLocation(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.customers = []models.Customer{{ID: 1}}
	fetcher.locations[1] = []models.Location{
		{ID: 10, CustomerID: 1},
		{ID: 11, CustomerID: 1},
		{ID: 12, CustomerID: 1},
	}
	fetcher.menus[10] = []models.MenuItem{{ID: 100, LocationID: 10}, {ID: 101, LocationID: 10}}
	fetcher.menuErr[11] = errors.New("boom")
	fetcher.menus[12] = []models.MenuItem{{ID: 120, LocationID: 12}}

	ctrl := New(fetcher, loggedInSession(), nil)
	all, err := ctrl.FetchAllMenuItems(context.Background())
	if err != nil {
		t.Fatalf("FetchAllMenuItems returned error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("aggregate = %d items, want 3 from non-failing locations", len(all))
	}
	if ctrl.AllMenusLoading() {
		t.Fatal("menu aggregate flag must be cleared after the pass")
	}
}

func TestAggregateSurfacesEnumerationFailure(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.customersErr = errors.New("listing broke")

	ctrl := New(fetcher, loggedInSession(), nil)
	if _, err := ctrl.FetchAllLocations(context.Background()); err == nil {
		t.Fatal("expected enumeration failure to surface")
	}
	if ctrl.AllLocationsLoading() {
		t.Fatal("loading flag must be cleared even on failure")
	}
}
