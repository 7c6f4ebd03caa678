package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/app"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/catalog"
	gateway "github.com/The-WildNuts/The-Wild-Nuts/internal/http"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/session"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/taxonomy"
	"github.com/The-WildNuts/The-Wild-Nuts/internal/tracking"
)

var (
	variant  string
	quantity int
	password string
	category string
	query    string
	watch    bool
	interval time.Duration
	force    bool
)

func resolvePassword() (string, error) {
	if password == "" {
		password = os.Getenv("STOREFRONT_PASSWORD")
	}
	if password == "" {
		return "", errors.New("password required (--password or STOREFRONT_PASSWORD)")
	}
	return password, nil
}

func loginFailure(err error) error {
	var loginErr *session.LoginError
	if errors.As(err, &loginErr) {
		return errors.New(loginErr.Reason)
	}
	return err
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the storefront as a local JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg, logger)
		if err != nil {
			return err
		}
		a.Restore(ctx)

		router := gateway.NewRouter(gateway.ServicesFrom(a), gateway.RouterConfig{
			RequestTimeout:     cfg.RequestTimeout(),
			MaxRequestBodySize: cfg.HTTP.MaxRequestBodySize,
		}, logger)
		srvErr := gateway.NewServer(cfg.HTTP.Port, router, logger).Run(ctx, cfg.ShutdownTimeout())

		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		return errors.Join(srvErr, a.Close(closeCtx))
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email-or-username>",
	Short: "Sign in and merge the account's cart and wishlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, err := resolvePassword()
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			res, err := a.Session.Login(ctx, args[0], pw)
			if err != nil {
				return loginFailure(err)
			}
			return printJSON(cmd, res)
		})
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup <email>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, err := resolvePassword()
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			res, err := a.Session.Register(ctx, args[0], pw)
			if err != nil {
				return loginFailure(err)
			}
			if !res.SignedIn {
				fmt.Fprintln(cmd.ErrOrStderr(), "account created; run \"storefront login\" to sign in")
			}
			return printJSON(cmd, res)
		})
	},
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List the signed-in customer's orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			orders, err := a.History.Orders(ctx)
			if err != nil {
				return err
			}
			if orders == nil {
				orders = []tracking.OrderSummary{}
			}
			return printJSON(cmd, orders)
		})
	},
}

var subscribeCmd = &cobra.Command{
	Use:   "subscribe <email>",
	Short: "Sign an email up for the newsletter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Backend.Subscribe(ctx, strings.TrimSpace(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "subscribed %s\n", strings.TrimSpace(args[0]))
			return nil
		})
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or write the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printYAML(cmd, cfg)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the --config path",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		}
		if err := cfg.Save(configPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configPath)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear this device's cart and wishlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return a.Session.Logout(ctx)
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in customer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if !a.Session.IsAuthenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "not signed in")
				return nil
			}
			if _, err := a.Session.RefreshProfile(ctx); err != nil {
				logger.Debug("profile refresh failed, showing saved identity", zap.Error(err))
			}
			return printJSON(cmd, a.Session.Identity())
		})
	},
}

type cartView struct {
	Items interface{} `json:"items"`
	Count int         `json:"count"`
	Total string      `json:"total"`
}

func showCart(cmd *cobra.Command, a *app.App) error {
	return printJSON(cmd, cartView{Items: a.Cart.Lines(), Count: a.Cart.Count(), Total: a.Cart.Total().String()})
}

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show or change the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return showCart(cmd, a)
		})
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			p, err := a.Catalog.Product(ctx, args[0])
			if errors.Is(err, catalog.ErrProductNotFound) {
				return fmt.Errorf("product %q not found", args[0])
			}
			if err != nil {
				return err
			}
			if err := a.Cart.AddItem(ctx, p, quantity, variant); err != nil {
				return err
			}
			return showCart(cmd, a)
		})
	},
}

var cartSetCmd = &cobra.Command{
	Use:   "set <product-id> <quantity>",
	Short: "Set the quantity of a cart line",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Cart.UpdateQuantity(ctx, args[0], variant, qty); err != nil {
				return err
			}
			return showCart(cmd, a)
		})
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a cart line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			removed, err := a.Cart.RemoveItem(ctx, args[0], variant)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("%s (%s) is not in the cart", args[0], variant)
			}
			return showCart(cmd, a)
		})
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return a.Cart.Clear(ctx)
		})
	},
}

var wishlistCmd = &cobra.Command{
	Use:   "wishlist",
	Short: "Show or change the wishlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return printJSON(cmd, a.Wishlist.Entries())
		})
	},
}

var wishlistAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Save a product for later",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return a.Wishlist.Add(ctx, args[0])
		})
	},
}

var wishlistRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a saved product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			_, err := a.Wishlist.Remove(ctx, args[0])
			return err
		})
	},
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <category name>",
	Short: "Resolve a raw category name to its canonical category",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd, taxonomy.Normalize(strings.Join(args, " ")))
	},
}

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return printJSON(cmd, a.Catalog.Products(ctx, catalog.Filter{Category: category, Query: query}))
		})
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order for the cart and print the WhatsApp confirmation link",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			receipt, err := a.Checkout.Place(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, receipt)
		})
	},
}

var trackCmd = &cobra.Command{
	Use:   "track <order-id>",
	Short: "Show the delivery progress of an order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if watch {
				var printErr error
				err := a.Tracker.Watch(ctx, args[0], interval, func(st tracking.Status) {
					if printErr == nil {
						printErr = printJSON(cmd, st)
					}
				})
				return errors.Join(err, printErr)
			}
			status, err := a.Tracker.Track(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, status)
		})
	},
}

func init() {
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "Password (or set STOREFRONT_PASSWORD)")
	signupCmd.Flags().StringVarP(&password, "password", "p", "", "Password, at least 6 characters (or set STOREFRONT_PASSWORD)")
	trackCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep polling until the order is delivered or cancelled (bounded by --timeout)")
	trackCmd.Flags().DurationVar(&interval, "interval", tracking.DefaultWatchInterval, "Polling interval for --watch")
	configInitCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	for _, c := range []*cobra.Command{cartAddCmd, cartSetCmd, cartRemoveCmd} {
		c.Flags().StringVar(&variant, "variant", "250g", "Weight variant (100g, 250g, 500g, 1kg)")
	}
	cartAddCmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "Quantity")
	cartCmd.AddCommand(cartAddCmd, cartSetCmd, cartRemoveCmd, cartClearCmd)
	wishlistCmd.AddCommand(wishlistAddCmd, wishlistRemoveCmd)

	productsCmd.Flags().StringVar(&category, "category", "", "Category slug, e.g. almonds or malt-drink")
	productsCmd.Flags().StringVar(&query, "query", "", "Search text")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(wishlistCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(subscribeCmd)
	rootCmd.AddCommand(configCmd)
}
