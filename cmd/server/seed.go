package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/blogsite/internal/config"
	"github.com/blogsite/internal/db"
	"github.com/blogsite/internal/service"
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
)

const (
	adminEmailFlag    = "admin-email"
	adminPasswordFlag = "admin-password"
	adminNameFlag     = "admin-name"
)

var seedFlags = map[string]cobraflags.Flag{
	databaseURLFlag: &cobraflags.StringFlag{
		Name:  databaseURLFlag,
		Value: "",
		Usage: databaseURLHelp,
	},
	adminEmailFlag: &cobraflags.StringFlag{
		Name:  adminEmailFlag,
		Value: "admin@example.com",
		Usage: "Email of the administrator created on an empty database",
	},
	adminPasswordFlag: &cobraflags.StringFlag{
		Name:  adminPasswordFlag,
		Value: "admin1234",
		Usage: "Password of the administrator created on an empty database",
	},
	adminNameFlag: &cobraflags.StringFlag{
		Name:  adminNameFlag,
		Value: "Admin",
		Usage: "Display name of the administrator created on an empty database",
	},
}

// demoPosts 本地开发使用的示例文章
var demoPosts = []service.PostInput{
	{
		Title:    "The Life of Cactus",
		Subtitle: "Who knew that cacti lived such interesting lives.",
		ImgURL:   "https://images.unsplash.com/photo-1530482054429-cc491f61333b?w=1280",
		Body:     "<p>Nori grape silver beet broccoli kombu beet greens fava bean potato quandong celery.</p>",
	},
	{
		Title:    "Writing in Markdown",
		Subtitle: "Posts accept markdown as well as editor HTML.",
		ImgURL:   "https://images.unsplash.com/photo-1455390582262-044cdead277a?w=1280",
		Body:     "## Headings work\n\nSo do **bold**, _italics_ and [links](https://example.com).",
	},
	{
		Title:    "Hello, Comments",
		Subtitle: "Register an account and say something below.",
		ImgURL:   "https://images.unsplash.com/photo-1516321318423-f06f85e504b3?w=1280",
		Body:     "<p>Comments are open to every registered reader.</p>",
	},
}

func newSeedCommand(cfg config.AppConfig, log *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo posts authored by the administrator",
		Long: `Insert a handful of demo posts for local development.

On an empty database the administrator account is created first from the
--admin-* flags. Posts whose title already exists are skipped, so the command
can be run repeatedly.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gdb, err := db.Open(databaseURL(cfg, seedFlags[databaseURLFlag].GetString()), nil)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			created, err := seedDemo(ctx, db.NewStore(gdb), service.RegisterInput{
				Email:    seedFlags[adminEmailFlag].GetString(),
				Password: seedFlags[adminPasswordFlag].GetString(),
				Name:     seedFlags[adminNameFlag].GetString(),
			})
			if err != nil {
				return err
			}
			log.Info("seed finished", slog.Int("posts_created", created))
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, seedFlags)
	return cmd
}

// seedDemo makes sure an administrator exists and inserts the demo posts it
// does not have yet. It returns the number of posts created.
func seedDemo(ctx context.Context, store *db.Store, admin service.RegisterInput) (int, error) {
	author, err := db.FindOne[db.User](ctx, store, "role = ?", db.RoleAdmin)
	if errors.Is(err, db.ErrNotFound) {
		author, err = registerSeedAdmin(ctx, store, admin)
	}
	if err != nil {
		return 0, fmt.Errorf("resolve administrator: %w", err)
	}

	posts := service.NewPostService(store)
	created := 0
	for _, input := range demoPosts {
		if _, err := posts.Create(ctx, author.ID, input); err != nil {
			if errors.Is(err, service.ErrTitleTaken) {
				continue
			}
			return created, fmt.Errorf("create %q: %w", input.Title, err)
		}
		created++
	}
	return created, nil
}

var errNoAdministrator = errors.New("database already has users but no administrator")

// registerSeedAdmin creates the administrator, refusing to touch a database
// that already holds reader accounts.
func registerSeedAdmin(ctx context.Context, store *db.Store, admin service.RegisterInput) (*db.User, error) {
	total, err := db.Count[db.User](ctx, store)
	if err != nil {
		return nil, err
	}
	if total > 0 {
		return nil, errNoAdministrator
	}

	user, err := service.NewUserService(store).Register(ctx, admin)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, errNoAdministrator
	}
	return user, nil
}
