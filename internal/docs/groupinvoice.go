package docs

import (
	"context"
	"fmt"

	"github.com/formaplus/docgen/internal/logger"
	"github.com/formaplus/docgen/internal/pricing"
	"github.com/formaplus/docgen/internal/recordstore"
	"github.com/formaplus/docgen/internal/schedule"
)

// headcountTBD replaces a non-positive headcount on on-site invoices.
const headcountTBD = "À déterminer"

// GroupInvoiceDoc assembles one invoice covering every enrollment of a
// factGroupId scope. Generation requires the group's uniqueness marker to
// be set.
type GroupInvoiceDoc struct {
	assembler
	template string
}

func NewGroupInvoiceDoc(gw recordstore.Gateway, appLogger *logger.Logger, template string) *GroupInvoiceDoc {
	return &GroupInvoiceDoc{assembler: assembler{gw: gw, appLogger: appLogger}, template: template}
}

func (d *GroupInvoiceDoc) Name() string         { return "facture-groupe" }
func (d *GroupInvoiceDoc) TemplateFile() string { return d.template }

func (d *GroupInvoiceDoc) Assemble(ctx context.Context, req Request) ([]Output, error) {
	if req.RecordID == "" {
		return nil, &recordstore.RecordNotFoundError{Collection: CollectionBilling, RecordID: req.RecordID}
	}

	rec, err := d.fetchNormalized(ctx, CollectionBilling, req.RecordID, nil)
	if err != nil {
		return nil, err
	}

	if rec.Str(FieldUnicity) != UnicityOK {
		return nil, &PreconditionError{
			DocumentType: d.Name(),
			Reason:       fmt.Sprintf("group scope is not unique (unicite=%q)", rec.Str(FieldUnicity)),
		}
	}

	groupID := rec.Str(FieldGroupID)
	if groupID == "" {
		return nil, &PreconditionError{DocumentType: d.Name(), Reason: "record carries no group id"}
	}

	enrollRecs, err := d.gw.FetchCollection(ctx, CollectionEnrollments, recordstore.ListOptions{
		FilterFormula: groupFilter(groupID),
		SortField:     FieldTraineeName,
	})
	if err != nil {
		return nil, err
	}

	enrollments := make([]pricing.Enrollment, 0, len(enrollRecs))
	for _, er := range enrollRecs {
		enrollments = append(enrollments, enrollmentPricing(er))
	}

	merged := MergeAddress(rec)
	data := Data{
		"type_document": "Facture",
		"numero":        rec.Str(FieldDocNumber),
		"date":          rec.Str(FieldDocDate),
		"entite":        merged["Entité"],
		"rue":           merged["Rue"],
		"code_postal":   merged["Code postal"],
		"ville":         merged["Ville"],
		"fonction":      merged["Fonction"],
	}

	sessionID := rec.FirstRef(FieldSession)
	if sessionID == "" && len(enrollRecs) > 0 {
		sessionID = enrollRecs[0].FirstRef(FieldSession)
	}

	var session recordstore.Record
	if sessionID != "" {
		sessionData, _, srec, err := d.sessionContext(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		for k, v := range sessionData {
			data[k] = v
		}
		session = srec
	}

	if onSiteSession(session) {
		// Sessions on client premises are billed as a flat package with no
		// per-trainee roster.
		packagePrice := session.Float(FieldOnSitePackage)
		data["montant"] = packagePrice
		data["montant_formate"] = pricing.FormatEUR(packagePrice)
		data["effectif"] = headcountLabel(session.Float(FieldHeadcount))
		data["participants"] = []map[string]any{}
	} else {
		total, lines := pricing.GroupTotal(enrollments)
		roster := make([]map[string]any, 0, len(lines))
		for _, line := range lines {
			roster = append(roster, map[string]any{
				"nom":     line.Name,
				"montant": line.FormattedAmount,
				"paye":    line.Paid,
			})
		}
		data["montant"] = total
		data["montant_formate"] = pricing.FormatEUR(total)
		data["effectif"] = fmt.Sprintf("%d", len(lines))
		data["participants"] = roster
	}

	filename := fmt.Sprintf("Facture %s - %s.docx", rec.Str(FieldDocNumber), merged["Entité"])
	return []Output{{Filename: filename, Data: data}}, nil
}

func onSiteSession(session recordstore.Record) bool {
	for _, loc := range session.Strings(FieldLocations) {
		if schedule.OnClientPremises(schedule.KindOfLocation(loc)) {
			return true
		}
	}
	return false
}

func headcountLabel(headcount float64) string {
	if headcount <= 0 {
		return headcountTBD
	}
	return fmt.Sprintf("%d", int(headcount))
}
