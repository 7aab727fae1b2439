package entity

import "errors"

var ErrProductNotFound = errors.New("product not found")

// Product is one prefabricated house model of the catalog.
type Product struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	StartingPrice float64  `json:"startingPrice" yaml:"starting_price"`
	SizeM2        int      `json:"size" yaml:"size_m2"`
	Image         string   `json:"image" yaml:"image"`
	Images        []string `json:"images" yaml:"images"`
}

type Catalog struct {
	Products []Product `json:"products" yaml:"products"`
}

func (c *Catalog) All() []Product {
	out := make([]Product, len(c.Products))
	copy(out, c.Products)
	return out
}

func (c *Catalog) FindByID(id string) (*Product, error) {
	for i := range c.Products {
		if c.Products[i].ID == id {
			p := c.Products[i]
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}
