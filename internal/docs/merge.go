package docs

import "github.com/formaplus/docgen/internal/recordstore"

// Address and identity fields subject to precedence merging on billing
// records.
var addressFields = []string{"Entité", "Rue", "Code postal", "Ville", "Fonction"}

// Override suffixes, in precedence order: a manually entered payer override
// wins over the funding-body value, which wins over the bare field.
const (
	overridePayerSuffix   = " payeur"
	overrideFundingSuffix = " OPCO"
)

// MergeAddress resolves the effective address/identity fields of a billing
// record: payer override, then funding-body value, then the bare field, then
// the empty string.
func MergeAddress(rec recordstore.Record) map[string]string {
	out := make(map[string]string, len(addressFields))
	for _, field := range addressFields {
		out[field] = firstNonEmpty(
			rec.Str(field+overridePayerSuffix),
			rec.Str(field+overrideFundingSuffix),
			rec.Str(field),
		)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
