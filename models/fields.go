package models

// Default field classes used by conflict classification. The sets are
// app-specific and can be overridden through configuration; these defaults
// cover the PocketPlan entity payloads.
var (
	// CriticalFields affect monetary balance or identity.
	CriticalFields = []string{"balance", "amount", "currency", "account_number", "owner_id"}

	// HighFields change the meaning of an entity without touching money.
	HighFields = []string{"account_type", "category", "goal_target"}

	// MediumFields are organisational metadata.
	MediumFields = []string{"tags", "tag", "label", "labels", "color", "folder"}
)
