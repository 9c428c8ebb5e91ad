package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/pktikkani/forecastio/internal/api"
	"github.com/pktikkani/forecastio/internal/cascade"
	"github.com/pktikkani/forecastio/internal/models"
	"github.com/pktikkani/forecastio/internal/session"
)

// App wires the session store, the backend client and the selection
// controller behind the commands.
type App struct {
	cfg     Config
	logger  *zap.Logger
	storage *session.SQLiteStorage
	sess    *session.Store
	client  *api.Client
	cascade *cascade.Controller

	in  *bufio.Reader
	out *os.File
}

// NewApp opens the local session database and builds the command surface.
func NewApp(cfg Config, logger *zap.Logger) (*App, error) {
	storage, err := session.NewSQLiteStorage(filepath.Join(cfg.DataDir, "session.db"))
	if err != nil {
		return nil, err
	}

	sess := session.NewStore(storage, logger)
	client := api.NewClient(cfg.API.BaseURL, api.NewDefaultHTTPClient(cfg.API.Timeout()), logger)

	return &App{
		cfg:     cfg,
		logger:  logger,
		storage: storage,
		sess:    sess,
		client:  client,
		cascade: cascade.New(client, sess, logger),
		in:      bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Close releases the session database.
func (a *App) Close() error {
	return a.storage.Close()
}

func (a *App) prompt(label string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Login authenticates and stores the credential for subsequent runs.
func (a *App) Login(ctx context.Context, email string) error {
	var err error
	if email == "" {
		if email, err = a.prompt("Email"); err != nil {
			return err
		}
	}
	password, err := a.prompt("Password")
	if err != nil {
		return err
	}

	resp, err := a.client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	a.sess.SetAuth(resp.Token, resp.Email)
	fmt.Fprintf(a.out, "Logged in as %s\n", resp.Email)
	return nil
}

// Signup registers a new account and logs it in.
func (a *App) Signup(ctx context.Context, email string) error {
	var err error
	if email == "" {
		if email, err = a.prompt("Email"); err != nil {
			return err
		}
	}
	password, err := a.prompt("Password")
	if err != nil {
		return err
	}

	resp, err := a.client.Signup(ctx, email, password)
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}

	a.sess.SetAuth(resp.Token, resp.Email)
	fmt.Fprintf(a.out, "Account created, logged in as %s\n", resp.Email)
	return nil
}

// Logout drops the stored credential and identity.
func (a *App) Logout() error {
	a.sess.Clear()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Whoami prints the stored identity plus the credential's expiry. The token
// is decoded without verification; only the backend holds the signing key.
func (a *App) Whoami() error {
	snap := a.sess.Snapshot()
	if !snap.LoggedIn() {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	fmt.Fprintf(a.out, "%s\n", snap.Email)

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(snap.Token, &claims); err != nil {
		a.logger.Debug("stored credential is not a decodable JWT", zap.Error(err))
		return nil
	}
	if claims.ExpiresAt != nil {
		fmt.Fprintf(a.out, "Token expires %s\n", claims.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

// ListCustomers prints the customer table. Fetch failures other than a
// missing credential degrade to an empty table; the cascade already logged
// the diagnostics.
func (a *App) ListCustomers(ctx context.Context) error {
	customers, err := a.cascade.LoadCustomers(ctx)
	if errors.Is(err, api.ErrNotAuthenticated) {
		return err
	}
	a.cascade.Wait()

	rows := make([][]string, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []string{strconv.FormatInt(c.ID, 10), c.Name, c.City})
	}
	printTable(a.out, []string{"ID", "Name", "City"}, rows, nil)
	return nil
}

func (a *App) AddCustomer(ctx context.Context, name, city string) error {
	created, err := a.client.CreateCustomer(ctx, a.sess.Token(), api.CustomerInput{Name: name, City: city})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created customer %d (%s)\n", created.ID, created.Name)
	return nil
}

func (a *App) UpdateCustomer(ctx context.Context, id int64, name, city string) error {
	updated, err := a.client.UpdateCustomer(ctx, a.sess.Token(), id, api.CustomerInput{Name: name, City: city})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated customer %d (%s)\n", updated.ID, updated.Name)
	return nil
}

func (a *App) RemoveCustomer(ctx context.Context, id int64) error {
	if err := a.client.DeleteCustomer(ctx, a.sess.Token(), id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted customer %d\n", id)
	return nil
}

func (a *App) ListLocations(ctx context.Context, customerID int64) error {
	var locations []models.Location
	var err error
	if customerID != 0 {
		locations, err = a.cascade.SelectCustomer(ctx, customerID)
	} else {
		locations, err = a.cascade.FetchAllLocations(ctx)
	}
	if errors.Is(err, api.ErrNotAuthenticated) {
		return err
	}
	a.cascade.Wait()

	rows := make([][]string, 0, len(locations))
	for _, l := range locations {
		rows = append(rows, []string{
			strconv.FormatInt(l.ID, 10), l.Name, l.City, l.Timezone,
			strconv.FormatInt(l.CustomerID, 10),
		})
	}
	printTable(a.out, []string{"ID", "Name", "City", "Timezone", "Customer"}, rows, nil)
	return nil
}

func (a *App) AddLocation(ctx context.Context, in api.LocationInput) error {
	created, err := a.client.CreateLocation(ctx, a.sess.Token(), in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created location %d (%s)\n", created.ID, created.Name)
	return nil
}

func (a *App) RemoveLocation(ctx context.Context, id int64) error {
	if err := a.client.DeleteLocation(ctx, a.sess.Token(), id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted location %d\n", id)
	return nil
}

func (a *App) ListMenuItems(ctx context.Context, locationID int64) error {
	var items []models.MenuItem
	var err error
	if locationID != 0 {
		items, err = a.client.ListMenuItems(ctx, a.sess.Token(), locationID)
	} else {
		items, err = a.cascade.FetchAllMenuItems(ctx)
	}
	if errors.Is(err, api.ErrNotAuthenticated) {
		return err
	}
	if err != nil {
		a.logger.Warn("menu listing degraded to empty", zap.Error(err))
	}

	rows := make([][]string, 0, len(items))
	for _, m := range items {
		rows = append(rows, []string{
			strconv.FormatInt(m.ID, 10), m.Name, strconv.FormatInt(m.LocationID, 10),
		})
	}
	printTable(a.out, []string{"ID", "Name", "Location"}, rows, nil)
	return nil
}

func (a *App) AddMenuItem(ctx context.Context, locationID int64, name string) error {
	created, err := a.client.CreateMenuItem(ctx, a.sess.Token(), locationID, api.MenuItemInput{Name: name})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created menu item %d (%s)\n", created.ID, created.Name)
	return nil
}

func (a *App) RemoveMenuItem(ctx context.Context, id int64) error {
	if err := a.client.DeleteMenuItem(ctx, a.sess.Token(), id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted menu item %d\n", id)
	return nil
}

// Dashboard prints entity counts across the whole account.
func (a *App) Dashboard(ctx context.Context) error {
	customers, err := a.cascade.LoadCustomers(ctx)
	if err != nil {
		return err
	}
	locations, err := a.cascade.FetchAllLocations(ctx)
	if err != nil {
		return err
	}
	items, err := a.cascade.FetchAllMenuItems(ctx)
	if err != nil {
		return err
	}
	a.cascade.Wait()

	rows := [][]string{
		{"Customers", strconv.Itoa(len(customers))},
		{"Locations", strconv.Itoa(len(locations))},
		{"Menu items", strconv.Itoa(len(items))},
	}
	printTable(a.out, []string{"Entity", "Count"}, rows, nil)
	return nil
}

// Upload sends a historical-sales CSV for the given selection.
func (a *App) Upload(ctx context.Context, path string, customerID, locationID, menuID int64) error {
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return fmt.Errorf("only .csv files are accepted, got %q", filepath.Base(path))
	}

	sel, err := a.resolveSelection(ctx, customerID, locationID, menuID)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	result, err := a.client.BulkUpload(ctx, a.sess.Token(), api.UploadInput{
		Content:    file,
		CustomerID: sel.CustomerID,
		LocationID: sel.LocationID,
		MenuID:     sel.MenuID,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Uploaded %d datapoints\n", result.Inserted)
	return nil
}

// Train requests model training for the selection.
func (a *App) Train(ctx context.Context, customerID, locationID, menuID int64) error {
	sel, err := a.resolveSelection(ctx, customerID, locationID, menuID)
	if err != nil {
		return err
	}

	result := a.client.TrainModel(ctx, a.sess.Token(), sel.LocationID, sel.MenuID)
	if !result.Success {
		fmt.Fprintln(a.out, "No data found, please upload data for the selected menu")
		return nil
	}
	fmt.Fprintln(a.out, "Model trained")
	return nil
}

// Forecast prints the predicted series for the selection. Days the model
// cannot predict render as "-".
func (a *App) Forecast(ctx context.Context, customerID, locationID, menuID int64, days int) error {
	sel, err := a.resolveSelection(ctx, customerID, locationID, menuID)
	if err != nil {
		return err
	}
	if err := a.cascade.SetDayRange(days); err != nil {
		return err
	}

	result := a.client.Forecast(ctx, a.sess.Token(), sel.LocationID, sel.MenuID, days)
	if !result.Success {
		fmt.Fprintln(a.out, "Forecast failed: train a model for this selection first")
		return nil
	}

	rows := make([][]string, 0, len(result.Points))
	for _, p := range result.Points {
		value := "-"
		if p.PredValue != nil {
			value = strconv.FormatFloat(*p.PredValue, 'f', 2, 64)
		}
		rows = append(rows, []string{p.Date, value})
	}
	printTable(a.out, []string{"Date", "Predicted"}, rows, nil)
	return nil
}

// resolveSelection turns the optional flags into a full selection, letting
// the cascade fill in whatever the user left unset: the first customer, its
// first location, and that location's first menu item.
func (a *App) resolveSelection(ctx context.Context, customerID, locationID, menuID int64) (cascade.Selection, error) {
	if locationID != 0 && menuID != 0 {
		return cascade.Selection{CustomerID: customerID, LocationID: locationID, MenuID: menuID}, nil
	}

	if customerID != 0 {
		if _, err := a.cascade.SelectCustomer(ctx, customerID); err != nil {
			return cascade.Selection{}, err
		}
	} else {
		if _, err := a.cascade.LoadCustomers(ctx); err != nil {
			return cascade.Selection{}, err
		}
	}
	a.cascade.Wait()

	if locationID != 0 {
		if err := a.cascade.SelectLocation(ctx, locationID); err != nil {
			return cascade.Selection{}, err
		}
		a.cascade.Wait()
	}
	if menuID != 0 {
		a.cascade.SelectMenu(menuID)
	} else if menu := a.cascade.Menu(); len(menu) > 0 {
		a.cascade.SelectMenu(menu[0].ID)
	}

	sel := a.cascade.CurrentSelection()
	if sel.LocationID == 0 {
		return sel, fmt.Errorf("no location available, pass --location")
	}
	if sel.MenuID == 0 {
		return sel, fmt.Errorf("no menu item available, pass --menu")
	}
	return sel, nil
}
