package cli

import (
	"github.com/spf13/cobra"
)

// SetupCommands builds the full command tree around the app.
func SetupCommands(a *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "forecastio",
		Short:         "Restaurant demand forecasting client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	loginCmd := &cobra.Command{
		Use:   "login [email]",
		Short: "Authenticate against the backend",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var email string
			if len(args) > 0 {
				email = args[0]
			}
			return a.Login(cmd.Context(), email)
		},
	}

	signupCmd := &cobra.Command{
		Use:   "signup [email]",
		Short: "Create an account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var email string
			if len(args) > 0 {
				email = args[0]
			}
			return a.Signup(cmd.Context(), email)
		},
	}

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Drop the stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Logout()
		},
	}

	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Whoami()
		},
	}

	// customers
	customersCmd := &cobra.Command{
		Use:   "customers",
		Short: "Manage customers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.ListCustomers(cmd.Context())
		},
	}

	var customerName, customerCity string
	customersAddCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.AddCustomer(cmd.Context(), customerName, customerCity)
		},
	}
	customersAddCmd.Flags().StringVar(&customerName, "name", "", "customer name")
	customersAddCmd.Flags().StringVar(&customerCity, "city", "", "customer city")
	customersAddCmd.MarkFlagRequired("name")

	var updateName, updateCity string
	customersUpdateCmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.UpdateCustomer(cmd.Context(), id, updateName, updateCity)
		},
	}
	customersUpdateCmd.Flags().StringVar(&updateName, "name", "", "customer name")
	customersUpdateCmd.Flags().StringVar(&updateCity, "city", "", "customer city")
	customersUpdateCmd.MarkFlagRequired("name")

	customersRmCmd := &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.RemoveCustomer(cmd.Context(), id)
		},
	}
	customersCmd.AddCommand(customersAddCmd, customersUpdateCmd, customersRmCmd)

	// locations
	var locationCustomerID int64
	locationsCmd := &cobra.Command{
		Use:   "locations",
		Short: "Manage locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.ListLocations(cmd.Context(), locationCustomerID)
		},
	}
	locationsCmd.Flags().Int64Var(&locationCustomerID, "customer", 0, "filter by customer id")

	var locationName, locationCity, locationTimezone string
	var locationAddCustomerID int64
	locationsAddCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.AddLocation(cmd.Context(), locationInput(locationName, locationCity, locationTimezone, locationAddCustomerID))
		},
	}
	locationsAddCmd.Flags().StringVar(&locationName, "name", "", "location name")
	locationsAddCmd.Flags().StringVar(&locationCity, "city", "", "location city")
	locationsAddCmd.Flags().StringVar(&locationTimezone, "timezone", "", "IANA timezone")
	locationsAddCmd.Flags().Int64Var(&locationAddCustomerID, "customer", 0, "owning customer id")
	locationsAddCmd.MarkFlagRequired("name")
	locationsAddCmd.MarkFlagRequired("customer")

	locationsRmCmd := &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.RemoveLocation(cmd.Context(), id)
		},
	}
	locationsCmd.AddCommand(locationsAddCmd, locationsRmCmd)

	// menus
	var menuLocationID int64
	menusCmd := &cobra.Command{
		Use:   "menus",
		Short: "Manage menu items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.ListMenuItems(cmd.Context(), menuLocationID)
		},
	}
	menusCmd.Flags().Int64Var(&menuLocationID, "location", 0, "filter by location id")

	var menuName string
	var menuAddLocationID int64
	menusAddCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a menu item",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.AddMenuItem(cmd.Context(), menuAddLocationID, menuName)
		},
	}
	menusAddCmd.Flags().StringVar(&menuName, "name", "", "menu item name")
	menusAddCmd.Flags().Int64Var(&menuAddLocationID, "location", 0, "owning location id")
	menusAddCmd.MarkFlagRequired("name")
	menusAddCmd.MarkFlagRequired("location")

	menusRmCmd := &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a menu item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.RemoveMenuItem(cmd.Context(), id)
		},
	}
	menusCmd.AddCommand(menusAddCmd, menusRmCmd)

	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show entity counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Dashboard(cmd.Context())
		},
	}

	// selection flags shared by upload/train/forecast
	var selCustomer, selLocation, selMenu int64
	addSelectionFlags := func(cmd *cobra.Command) {
		cmd.Flags().Int64Var(&selCustomer, "customer", 0, "customer id (defaults to first)")
		cmd.Flags().Int64Var(&selLocation, "location", 0, "location id (defaults to first)")
		cmd.Flags().Int64Var(&selMenu, "menu", 0, "menu item id (defaults to first)")
	}

	uploadCmd := &cobra.Command{
		Use:   "upload [file.csv]",
		Short: "Upload a historical-sales CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Upload(cmd.Context(), args[0], selCustomer, selLocation, selMenu)
		},
	}
	addSelectionFlags(uploadCmd)

	trainCmd := &cobra.Command{
		Use:   "train",
		Short: "Train the forecast model for a selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Train(cmd.Context(), selCustomer, selLocation, selMenu)
		},
	}
	addSelectionFlags(trainCmd)

	var forecastDays int
	forecastCmd := &cobra.Command{
		Use:   "forecast",
		Short: "Show predicted demand for a selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Forecast(cmd.Context(), selCustomer, selLocation, selMenu, forecastDays)
		},
	}
	addSelectionFlags(forecastCmd)
	forecastCmd.Flags().IntVar(&forecastDays, "days", 7, "forecast horizon in days")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(customersCmd)
	rootCmd.AddCommand(locationsCmd)
	rootCmd.AddCommand(menusCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(forecastCmd)

	return rootCmd
}
