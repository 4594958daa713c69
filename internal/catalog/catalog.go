// Package catalog holds the curated brand and model data shared by the
// public dropdown endpoint and the stock reconciler.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry pairs a canonical brand name with its curated model list.
type Entry struct {
	Brand  string   `json:"brand" yaml:"brand"`
	Models []string `json:"models" yaml:"models"`
}

// Catalog is an ordered list of entries. The order is fixed, popular brands
// first; reconciliation tie-breaking and the fallback entry depend on it.
type Catalog []Entry

var defaultCatalog = Catalog{
	{Brand: "Dacia", Models: []string{"Logan", "Sandero", "Duster", "Spring", "Jogger", "Bigster"}},
	{Brand: "Volkswagen", Models: []string{"Golf", "Passat", "Polo", "Tiguan", "Touran", "Touareg", "T-Roc", "Arteon"}},
	{Brand: "BMW", Models: []string{"Seria 1", "Seria 3", "Seria 5", "Seria 7", "X1", "X3", "X5", "X6"}},
	{Brand: "Mercedes-Benz", Models: []string{"A-Class", "C-Class", "E-Class", "S-Class", "GLA", "GLC", "GLE", "Vito"}},
	{Brand: "Audi", Models: []string{"A3", "A4", "A6", "A8", "Q3", "Q5", "Q7", "Q8"}},
	{Brand: "Skoda", Models: []string{"Octavia", "Superb", "Fabia", "Kodiaq", "Karoq", "Kamiq"}},
	{Brand: "Ford", Models: []string{"Focus", "Fiesta", "Mondeo", "Kuga", "Puma", "Ranger", "Transit"}},
	{Brand: "Opel", Models: []string{"Astra", "Corsa", "Insignia", "Mokka", "Crossland", "Grandland"}},
	{Brand: "Renault", Models: []string{"Clio", "Megane", "Captur", "Kadjar", "Talisman", "Scenic"}},
	{Brand: "Toyota", Models: []string{"Corolla", "Yaris", "RAV4", "C-HR", "Camry", "Land Cruiser"}},
	{Brand: "Hyundai", Models: []string{"i20", "i30", "Tucson", "Santa Fe", "Kona", "Elantra"}},
	{Brand: "Kia", Models: []string{"Ceed", "Sportage", "Sorento", "Rio", "Stonic", "Niro"}},
	{Brand: "Nissan", Models: []string{"Qashqai", "Juke", "X-Trail", "Micra", "Leaf"}},
	{Brand: "Peugeot", Models: []string{"208", "308", "508", "2008", "3008", "5008"}},
	{Brand: "Volvo", Models: []string{"S60", "S90", "V60", "XC40", "XC60", "XC90"}},
}

// Default returns the compiled-in catalog. Callers must treat it as
// read-only; it changes only by editing source and redeploying.
func Default() Catalog {
	return defaultCatalog
}

// LoadFile reads a catalog override from a YAML file. The maintenance
// tooling uses it to reconcile against a candidate catalog before it is
// promoted into source.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	if len(cat) == 0 {
		return nil, fmt.Errorf("catalog file %s has no entries", path)
	}
	for i, entry := range cat {
		if entry.Brand == "" {
			return nil, fmt.Errorf("catalog file %s: entry %d has no brand", path, i)
		}
		if len(entry.Models) == 0 {
			return nil, fmt.Errorf("catalog file %s: brand %s has no models", path, entry.Brand)
		}
	}
	return cat, nil
}

// Brands returns the brand names in catalog order.
func (c Catalog) Brands() []string {
	brands := make([]string, len(c))
	for i, entry := range c {
		brands[i] = entry.Brand
	}
	return brands
}

// Models returns the model list for a brand, matched case-insensitively.
func (c Catalog) Models(brand string) ([]string, bool) {
	for _, entry := range c {
		if strings.EqualFold(entry.Brand, brand) {
			return entry.Models, true
		}
	}
	return nil, false
}
