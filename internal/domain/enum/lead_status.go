package enum

// LeadStatus is the qualification state of a lead
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

func (s LeadStatus) String() string {
	return string(s)
}

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost:
		return true
	}
	return false
}

// DealStage is the pipeline position of a deal
type DealStage string

const (
	DealStageProspecting DealStage = "prospecting"
	DealStageProposal    DealStage = "proposal"
	DealStageNegotiation DealStage = "negotiation"
	DealStageWon         DealStage = "won"
	DealStageLost        DealStage = "lost"
)

func (s DealStage) String() string {
	return string(s)
}

func (s DealStage) Valid() bool {
	switch s {
	case DealStageProspecting, DealStageProposal, DealStageNegotiation, DealStageWon, DealStageLost:
		return true
	}
	return false
}

// Open reports whether the deal is still in the pipeline
func (s DealStage) Open() bool {
	return s != DealStageWon && s != DealStageLost
}
