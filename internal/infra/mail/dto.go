package mail

type NewLeadEmailData struct {
	LeadID         string
	Name           string
	Email          string
	Phone          string
	Message        string
	ProductName    string
	TotalPrice     string
	Upgrades       int
	ReserveSlot    bool
	PreferredMonth string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}
