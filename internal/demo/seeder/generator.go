package seeder

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

var categories = []string{
	"Electronics", "Clothing", "Books", "Home & Garden", "Sports",
	"Toys", "Automotive", "Health & Beauty", "Food & Beverage", "Office Supplies",
}

var emailDomains = []string{
	"gmail.com", "yahoo.com", "hotmail.com", "outlook.com", "company.com",
}

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generator produces deterministic pseudo-random item rows for a given
// seed.
type Generator struct {
	rnd      *rand.Rand
	sequence int
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// NextItem returns the next row. IDs are sequential starting at 1; every
// other column is random within a realistic range.
func (g *Generator) NextItem() map[string]any {
	g.sequence++
	id := g.sequence

	return map[string]any{
		"id":           id,
		"name":         fmt.Sprintf("Item_%03d_%s", id, g.randomString(8)),
		"description":  fmt.Sprintf("Random description for item %d with features: %s", id, g.randomString(20)),
		"price":        round2(10 + g.rnd.Float64()*(999.99-10)),
		"category":     pickOne(g.rnd, categories),
		"email":        g.randomEmail(),
		"phone":        g.randomPhone(),
		"created_date": g.randomDate().Format("2006-01-02"),
		"is_active":    g.rnd.Intn(2) == 0,
		"quantity":     g.rnd.Intn(1001),
		"rating":       round2(1 + g.rnd.Float64()*4),
	}
}

func (g *Generator) randomString(length int) string {
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = alphanumeric[g.rnd.Intn(len(alphanumeric))]
	}
	return string(buf)
}

func (g *Generator) randomEmail() string {
	username := g.randomString(5 + g.rnd.Intn(8))
	return username + "@" + pickOne(g.rnd, emailDomains)
}

func (g *Generator) randomPhone() string {
	return fmt.Sprintf("+1-%d-%d-%d", 100+g.rnd.Intn(900), 100+g.rnd.Intn(900), 1000+g.rnd.Intn(9000))
}

func (g *Generator) randomDate() time.Time {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	days := int(end.Sub(start).Hours() / 24)
	return start.AddDate(0, 0, g.rnd.Intn(days+1))
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func pickOne(r *rand.Rand, values []string) string {
	return values[r.Intn(len(values))]
}
