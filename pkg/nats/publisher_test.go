package nats

import (
	"testing"

	"coding-assessment-be/pkg/events"

	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "assessment.assessment_report_generated", Subject(events.AssessmentReportGenerated))
	assert.Equal(t, "assessment.assessment_question_asked", Subject(events.AssessmentQuestionAsked))
}
