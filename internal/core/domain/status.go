package domain

// stageLabels holds the display label of every position an application can be in.
var stageLabels = map[StageID]string{
	StageKYC:             "Application Under Review",
	StageCarVerification: "Car Verification",
	StageInspection:      "Inspection",
	StageCredit:          "Credit Score",
	StageContract:        "Contract",
	StageCollection:      "Document Pending",
	StageLienMarking:     "Lien Marking",
	StageInsurance:       "Insurance",
	StageFinalReview:     "Final Review",
	StageApproved:        StatusLabelApproved,
}

// StageLabel returns the display label of stage, or the raw ID if unknown.
func StageLabel(stage StageID) string {
	if label, ok := stageLabels[stage]; ok {
		return label
	}
	return string(stage)
}

// StatusFor derives the display status from the position fields.
// There is deliberately no other way to produce an application status.
func StatusFor(stage StageID, rejected bool) string {
	if rejected {
		return StatusLabelRejected
	}
	return StageLabel(stage)
}
