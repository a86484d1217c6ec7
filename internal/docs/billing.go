package docs

import (
	"context"
	"fmt"

	"github.com/formaplus/docgen/internal/logger"
	"github.com/formaplus/docgen/internal/pricing"
	"github.com/formaplus/docgen/internal/recordstore"
)

// BillingDoc assembles the single-enrollment billing documents: facture,
// devis and convention share the same data shape and differ only in template
// and label.
type BillingDoc struct {
	assembler
	name     string
	label    string
	template string
}

func NewBillingDoc(gw recordstore.Gateway, appLogger *logger.Logger, name, label, template string) *BillingDoc {
	return &BillingDoc{
		assembler: assembler{gw: gw, appLogger: appLogger},
		name:      name,
		label:     label,
		template:  template,
	}
}

func (d *BillingDoc) Name() string         { return d.name }
func (d *BillingDoc) TemplateFile() string { return d.template }

func (d *BillingDoc) Assemble(ctx context.Context, req Request) ([]Output, error) {
	if req.RecordID == "" {
		return nil, &recordstore.RecordNotFoundError{Collection: CollectionBilling, RecordID: req.RecordID}
	}

	rec, err := d.fetchNormalized(ctx, CollectionBilling, req.RecordID, nil)
	if err != nil {
		return nil, err
	}

	merged := MergeAddress(rec)
	data := Data{
		"type_document": d.label,
		"numero":        rec.Str(FieldDocNumber),
		"date":          rec.Str(FieldDocDate),
		"entite":        merged["Entité"],
		"rue":           merged["Rue"],
		"code_postal":   merged["Code postal"],
		"ville":         merged["Ville"],
		"fonction":      merged["Fonction"],
	}

	sessionID := rec.FirstRef(FieldSession)

	if enrollID := rec.FirstRef(FieldEnrollment); enrollID != "" {
		enroll, err := d.fetchNormalized(ctx, CollectionEnrollments, enrollID, nil)
		if err != nil {
			return nil, err
		}

		cost := pricing.EnrollmentCost(enrollmentPricing(enroll))
		data["stagiaire"] = enroll.Str(FieldTraineeName)
		data["montant"] = cost
		data["montant_formate"] = pricing.FormatEUR(cost)
		data["statut_paiement"] = enroll.Str(FieldPaymentStatus)

		if sessionID == "" {
			sessionID = enroll.FirstRef(FieldSession)
		}
	}

	if sessionID != "" {
		sessionData, _, _, err := d.sessionContext(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		for k, v := range sessionData {
			data[k] = v
		}
	}

	filename := fmt.Sprintf("%s %s - %s.docx", d.label, rec.Str(FieldDocNumber), merged["Entité"])
	return []Output{{Filename: filename, Data: data}}, nil
}
