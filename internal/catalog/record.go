package catalog

// Well-known column names in the category CSV resources. Other columns are
// domain-specific and passed through untouched.
const (
	FieldName      = "Name"
	FieldWebsite   = "Website"
	FieldSocial    = "Social_Media"
	FieldPriceTier = "Εύρος_Τιμών"
)

// Record is one row of category data: a mapping from column name to value.
// Records are immutable after load; a new load replaces them wholesale.
type Record map[string]string

// Name returns the display name of the record, or "".
func (r Record) Name() string { return r[FieldName] }

// Website returns the website URL of the record, or "".
func (r Record) Website() string { return r[FieldWebsite] }

// SocialMedia returns the social media URL of the record, or "".
func (r Record) SocialMedia() string { return r[FieldSocial] }

// PriceTier returns the normalized price tier of the record.
func (r Record) PriceTier() string { return r[FieldPriceTier] }
