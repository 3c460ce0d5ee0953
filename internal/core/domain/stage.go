package domain

// StageID identifies one review stage of the application pipeline.
type StageID string

const (
	StageKYC             StageID = "kyc"
	StageCarVerification StageID = "car_verification"
	StageInspection      StageID = "inspection"
	StageCredit          StageID = "credit"
	StageContract        StageID = "contract"
	StageCollection      StageID = "collection"
	StageLienMarking     StageID = "lien_marking"
	StageInsurance       StageID = "insurance"
	StageFinalReview     StageID = "final_review"

	// StageApproved is the terminal position reached after the last stage completes.
	// It is not a reviewable stage and has no definition in the registry.
	StageApproved StageID = "approved"
)

// DocumentKind names a category of uploaded document.
type DocumentKind string

const (
	DocCNICFront            DocumentKind = "cnicFront"
	DocCNICBack             DocumentKind = "cnicBack"
	DocPhoto                DocumentKind = "photo"
	DocBankStatement        DocumentKind = "bankStatement"
	DocRegistrationBook     DocumentKind = "registrationBook"
	DocSignedContract       DocumentKind = "signedContract"
	DocCarVerificationPhoto DocumentKind = "carVerificationPhoto"
)

// KnownDocumentKinds lists every document kind the review pipeline understands.
var KnownDocumentKinds = []DocumentKind{
	DocCNICFront,
	DocCNICBack,
	DocPhoto,
	DocBankStatement,
	DocRegistrationBook,
	DocSignedContract,
	DocCarVerificationPhoto,
}

// IsKnownDocumentKind reports whether k is one of KnownDocumentKinds.
func IsKnownDocumentKind(k DocumentKind) bool {
	for _, known := range KnownDocumentKinds {
		if known == k {
			return true
		}
	}
	return false
}

// FieldKey names a stage-owned attribute stored in Application.Fields.
type FieldKey string

const (
	// KYC
	FieldApplicantName  FieldKey = "applicantName"
	FieldApplicantPhone FieldKey = "applicantPhone"
	FieldApplicantEmail FieldKey = "applicantEmail"
	FieldDateOfBirth    FieldKey = "dateOfBirth"
	FieldCNICNumber     FieldKey = "cnicNumber"
	FieldBankID         FieldKey = "bankId"
	FieldAccountTitle   FieldKey = "accountTitle"
	FieldIBAN           FieldKey = "iban"
	FieldCurrentAddress FieldKey = "currentAddress"

	// Vehicle
	FieldVehicleMake        FieldKey = "vehicleMake"
	FieldVehicleModel       FieldKey = "vehicleModel"
	FieldVehicleYear        FieldKey = "vehicleYear"
	FieldRegistrationNumber FieldKey = "registrationNumber"
	FieldEngineNumber       FieldKey = "engineNumber"
	FieldChassisNumber      FieldKey = "chassisNumber"

	// Inspection
	FieldInspectionDate     FieldKey = "inspectionDate"
	FieldInspectionLocation FieldKey = "inspectionLocation"
	FieldInspectorName      FieldKey = "inspectorName"
	FieldVehicleCondition   FieldKey = "vehicleCondition"
	FieldMileage            FieldKey = "mileage"
	FieldBodyCondition      FieldKey = "bodyCondition"
	FieldEngineCondition    FieldKey = "engineCondition"
	FieldInteriorCondition  FieldKey = "interiorCondition"
	FieldTiresCondition     FieldKey = "tiresCondition"
	FieldAccidentHistory    FieldKey = "accidentHistory"
	FieldEstimatedValue     FieldKey = "estimatedValue"
	FieldPakwheelsReportID  FieldKey = "pakwheelsReportId"

	// Credit
	FieldCreditLimit FieldKey = "creditLimit"

	// Contract
	FieldContractStatus FieldKey = "contractStatus"

	// Collection
	FieldAgentID        FieldKey = "agentId"
	FieldCollectionDate FieldKey = "collectionDate"
	FieldCollectionTime FieldKey = "collectionTime"

	// Lien marking
	FieldLienStatus FieldKey = "lienStatus"

	// Insurance
	FieldHasInsurance FieldKey = "hasInsurance"
)

// Status labels for the terminal positions.
const (
	StatusLabelApproved = "Approved"
	StatusLabelRejected = "Rejected"
)
