package docs

import (
	"github.com/formaplus/docgen/internal/pricing"
	"github.com/formaplus/docgen/internal/recordstore"
)

// Collections of the record store the document pipeline reads.
const (
	CollectionSessions    = "Sessions"
	CollectionEnrollments = "Inscriptions"
	CollectionBilling     = "Factures-Devis-Conventions"
	CollectionPrograms    = "Programmes"
)

// Billing record fields.
const (
	FieldDocNumber  = "Numéro"
	FieldDocDate    = "Date"
	FieldEnrollment = "Inscription"
	FieldSession    = "Session"
	FieldGroupID    = "factGroupId"
	FieldUnicity    = "unicite"

	// UnicityOK means the (entity, session) pair is unique among the grouped
	// enrollments; anything else makes a group invoice unsafe to generate.
	UnicityOK = "ok"
)

// Enrollment fields.
const (
	FieldTraineeName    = "Nom complet"
	FieldTraineeEmail   = "Email"
	FieldPaymentStatus  = "Statut"
	FieldSpecialRate    = "Tarif spécial"
	FieldCompanion      = "Accompagnateur"
	FieldMember         = "Adhérent"
	FieldMemberPrice    = "Tarif adhérent"
	FieldNonMemberPrice = "Tarif non adhérent"
	FieldDiscountRate   = "Remise"

	// StatusPaid is the localized payment-status value marking a settled
	// enrollment.
	StatusPaid = "Payé"
)

// Session fields.
const (
	FieldProgram       = "Programme"
	FieldLocations     = "Lieux"
	FieldAddresses     = "Adresses"
	FieldOnSitePackage = "Forfait intra"
	FieldHeadcount     = "Effectif"
	FieldSessionNumber = "Numéro de session"
)

// Program fields; the markup ones hold lightweight markup converted to HTML
// by the normalizer.
const (
	FieldProgramTitle  = "Intitulé"
	FieldProgramLength = "Durée"
	FieldObjectives    = "Objectifs"
	FieldCurriculum    = "Contenu"
	FieldPrerequisites = "Prérequis"
)

// ProgramMarkupFields lists the rich-text program fields.
var ProgramMarkupFields = []string{FieldObjectives, FieldCurriculum, FieldPrerequisites}

// enrollmentPricing maps an enrollment record onto the pricing engine's input.
// Price lookups land on the enrollment record itself (inherited from the
// linked session/program); absent values price at zero.
func enrollmentPricing(rec recordstore.Record) pricing.Enrollment {
	return pricing.Enrollment{
		TraineeName:    rec.Str(FieldTraineeName),
		SpecialRate:    rec.Float(FieldSpecialRate),
		Companion:      rec.Bool(FieldCompanion),
		IsMember:       rec.Bool(FieldMember),
		MemberPrice:    rec.Float(FieldMemberPrice),
		NonMemberPrice: rec.Float(FieldNonMemberPrice),
		DiscountRate:   rec.Float(FieldDiscountRate),
		Paid:           rec.Str(FieldPaymentStatus) == StatusPaid,
	}
}
