package kommo

type CreateLeadInput struct {
	CustomerName string
	Phone        string
	Email        string
	ProductName  string
	Price        float64
	Origin       string
	Tags         []string
}

type embeddedIDs struct {
	Embedded struct {
		Leads []struct {
			ID int `json:"id"`
		} `json:"leads"`
		Contacts []struct {
			ID int `json:"id"`
		} `json:"contacts"`
	} `json:"_embedded"`
}
