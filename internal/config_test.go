package internal_test

import (
	"time"

	"github.com/frahmantamala/expense-tracker/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func validConfig() *internal.Config {
	cfg := &internal.Config{
		Database: internal.DatabaseConfig{Driver: internal.DriverMemory},
		Security: internal.SecurityConfig{JWTSecret: "0123456789abcdef0123456789abcdef"},
	}
	cfg.ApplyDefaults()
	return cfg
}

var _ = Describe("Config", func() {
	Describe("ApplyDefaults", func() {
		It("should fill listing limits and vocabulary", func() {
			cfg := &internal.Config{}
			cfg.ApplyDefaults()

			Expect(cfg.Server.Port).To(Equal(8080))
			Expect(cfg.Database.Driver).To(Equal(internal.DriverPostgres))
			Expect(cfg.Security.AccessTokenDuration).To(Equal(15 * time.Minute))
			Expect(cfg.Expense.DefaultPageSize).To(Equal(internal.DefaultPageSize))
			Expect(cfg.Expense.MaxPageSize).To(Equal(internal.MaxPageSize))
			Expect(cfg.Expense.Categories).To(Equal(internal.DefaultCategories))
		})

		It("should not share the default vocabulary slice", func() {
			cfg := &internal.Config{}
			cfg.ApplyDefaults()
			cfg.Expense.Categories[0] = "changed"
			Expect(internal.DefaultCategories[0]).To(Equal("groceries"))
		})
	})

	Describe("Validate", func() {
		It("should accept a complete config", func() {
			Expect(validConfig().Validate()).To(Succeed())
		})

		DescribeTable("should reject",
			func(mutate func(*internal.Config), fragment string) {
				cfg := validConfig()
				mutate(cfg)
				err := cfg.Validate()
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring(fragment))
			},
			Entry("a short secret", func(c *internal.Config) { c.Security.JWTSecret = "short" }, "jwt secret"),
			Entry("an unknown driver", func(c *internal.Config) { c.Database.Driver = "oracle" }, "unsupported driver"),
			Entry("a database driver without source", func(c *internal.Config) { c.Database.Driver = internal.DriverSQLite }, "source is required"),
			Entry("a max page size below the default", func(c *internal.Config) { c.Expense.MaxPageSize = 5 }, "max_page_size"),
			Entry("an empty vocabulary", func(c *internal.Config) { c.Expense.Categories = nil }, "at least one category"),
			Entry("a bad port", func(c *internal.Config) { c.Server.Port = 70000 }, "invalid port"),
		)

		It("should report every failing section at once", func() {
			cfg := validConfig()
			cfg.Security.JWTSecret = ""
			cfg.Database.Driver = "oracle"
			err := cfg.Validate()
			Expect(err).To(MatchError(And(ContainSubstring("security config"), ContainSubstring("database config"))))
		})
	})

	Describe("EXPENSE_CATEGORIES_JSON", func() {
		It("should trim and drop blank names", func() {
			categories, err := internal.ParseCategoriesJSON(`[" Food ", "", "Transport"]`)
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(Equal([]string{"Food", "Transport"}))
		})

		It("should reject anything but a string array", func() {
			_, err := internal.ParseCategoriesJSON(`{"Food": true}`)
			Expect(err).To(HaveOccurred())
		})

		It("should override the configured vocabulary", func() {
			GinkgoT().Setenv("EXPENSE_CATEGORIES_JSON", `["Rent","Food"]`)
			cfg := validConfig()
			cfg.ApplyCategoriesFromEnv()
			Expect(cfg.Expense.Categories).To(Equal([]string{"Rent", "Food"}))
		})

		It("should keep the vocabulary when the variable is malformed", func() {
			GinkgoT().Setenv("EXPENSE_CATEGORIES_JSON", `not json`)
			cfg := validConfig()
			cfg.ApplyCategoriesFromEnv()
			Expect(cfg.Expense.Categories).To(Equal(internal.DefaultCategories))
		})
	})
})
