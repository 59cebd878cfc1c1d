package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"taskTracker/internal/db"
	"taskTracker/repository"
)

func newUsersCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List registered accounts and check that their passwords are stored hashed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			d, err := db.Open(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer d.Close()

			list, err := repository.NewUserRepository(d).List(cmd.Context(), limit, 0)
			if err != nil {
				return fmt.Errorf("list users: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d user(s)\n", len(list))
			if len(list) == 0 {
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tUSERNAME\tPASSWORD\tANSWER")
			for _, u := range list {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Username, hashState(u.PasswordHash), hashState(u.SecurityAnswerHash))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum number of users to list")
	return cmd
}

// hashState describes a stored secret without revealing it.
func hashState(h string) string {
	cost, err := bcrypt.Cost([]byte(h))
	if err != nil {
		return "NOT HASHED"
	}
	return fmt.Sprintf("bcrypt (cost %d)", cost)
}
