package assessment

// Context is the flat text mapping handed to the model for one invocation.
type Context map[string]string

const (
	KeyProblemStatement = "problem_statement"
	KeyCode             = "code"
	KeyDiff             = "diff"
	KeyHistory          = "history"
	KeyQuestion         = "question"
	KeyResponse         = "response"
	KeyFinalCode        = "final_code"
	KeyFullHistory      = "full_history"
)
