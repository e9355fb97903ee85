package rules

// Reference ids with rule effects beyond their modification-point cost.
const (
	TraitTough        = "trait_tough"
	TraitResilientCon = "trait_resilient_con"
	TraitObservant    = "trait_observant"
	TraitAlert        = "trait_alert"
	TraitLinguist     = "trait_linguist"
	FeatToughUpgrade  = "feat_tough_upgrade"
	FeatMobile        = "feat_mobile"
	SkillPerception   = "skill_perception"
)

// Defaults applied to a fresh character and to fields missing from a save.
const (
	DefaultName    = "Незнакомец"
	DefaultRaceID  = "human"
	DefaultGradeID = "C"
	DefaultRankID  = "R1"
	DefaultStageID = StageInitial
)
