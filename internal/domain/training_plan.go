package domain

// TrainingPlan holds the generated free-text training schedule for one goal.
// Its ID equals the ID of the goal it was generated for; a goal has at most
// one current plan and a new save replaces the prior one.
//
// Text is opaque: the generator interleaves numbered steps, hyphen bullets,
// plain paragraphs and embedded HTML tables with no consistent formatting.
// It is stored verbatim and transformed only at display time.
type TrainingPlan struct {
	ID   string `json:"id"`
	Text string `json:"trainingPlans"`
}
