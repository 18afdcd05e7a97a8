package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/spf13/cobra"
)

var (
	seedUserID int64
	clearData  bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed sample expenses for one user over the current and previous month for development and testing purposes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		if clearData {
			removed, err := clearExpenses(ctx, a.repo, seedUserID)
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d existing expenses for user %d\n", removed, seedUserID)
		}

		created := 0
		for _, dto := range sampleExpenses(time.Now(), a.categories.Names()) {
			if _, err := a.expenses.Create(ctx, seedUserID, dto); err != nil {
				return fmt.Errorf("failed to seed expense %q: %w", dto.Description, err)
			}
			created++
		}
		fmt.Printf("Seeded %d expenses for user %d\n", created, seedUserID)
		return nil
	},
}

func init() {
	seedCmd.Flags().Int64Var(&seedUserID, "user-id", 1, "user to seed expenses for")
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
}

// sampleExpenses spreads a dozen entries over the current and previous month,
// cycling through categories. Dates never pass now.
func sampleExpenses(now time.Time, categories []string) []expense.CreateExpenseDTO {
	today := expense.DateOnly(now)
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	previous := firstOfMonth.AddDate(0, -1, 0)

	amounts := []int64{1250, 4999, 830, 12000, 2500, 675}
	var out []expense.CreateExpenseDTO
	for i := 0; i < 12; i++ {
		base := firstOfMonth
		if i%2 == 1 {
			base = previous
		}
		date := base.AddDate(0, 0, (i*3)%28)
		if date.After(today) {
			date = today
		}
		out = append(out, expense.CreateExpenseDTO{
			Date:        date.Format(expense.DateLayout),
			Category:    categories[i%len(categories)],
			AmountCents: amounts[i%len(amounts)],
			Description: fmt.Sprintf("sample expense %d", i+1),
		})
	}
	return out
}

// clearExpenses deletes every expense of userID through the repository.
func clearExpenses(ctx context.Context, repo expense.Repository, userID int64) (int, error) {
	years, err := repo.DistinctYears(ctx, userID)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, year := range years {
		for month := 1; month <= 12; month++ {
			criteria := expense.NewFilterCriteria(userID, year, month)
			rows, err := repo.FindMatching(ctx, criteria, 0, -1)
			if err != nil {
				return removed, err
			}
			for _, row := range rows {
				if err := repo.Delete(ctx, row.ID); err != nil {
					return removed, err
				}
				removed++
			}
		}
	}
	return removed, nil
}
