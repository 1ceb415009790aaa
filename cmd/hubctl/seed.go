package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/stewardship-hub/internal/config"
	"github.com/iliyamo/stewardship-hub/internal/repository"
	"github.com/iliyamo/stewardship-hub/internal/service"
)

var flagBcryptCost int

var seedCmd = &cobra.Command{
	Use:   "seed <file.toml>",
	Short: "Load a semester, admin accounts and purchases from TOML",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&flagBcryptCost, "bcrypt-cost", 12, "bcrypt cost for new admin passwords")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	seed, err := config.LoadSeed(args[0])
	if err != nil {
		return err
	}
	db, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	s := &service.Seeder{
		Semester:    repository.NewSemesterRepo(db),
		Users:       repository.NewUserRepo(db),
		Teams:       repository.NewTeamRepo(db),
		Purchases:   repository.NewPurchaseRepo(db),
		AdminTeamID: envOr("ADMIN_TEAM_ID", "admin"),
		BcryptCost:  flagBcryptCost,
		Loc:         config.LoadLocation(),
	}
	res, err := s.Apply(cmd.Context(), seed)
	if err != nil {
		return err
	}
	switch {
	case res.SemesterCreated:
		fmt.Println("  semester   created")
	case res.SemesterUpdated:
		fmt.Println("  semester   updated")
	}
	fmt.Printf("  admins     %d created, %d granted\n", res.AdminsCreated, res.AdminsGranted)
	fmt.Printf("  purchases  %d added\n", res.Purchases)
	return nil
}
