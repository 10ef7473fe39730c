package game

import "math/rand"

type Operator string

const (
	OpAddition       Operator = "ADDITION"
	OpSubtraction    Operator = "SUBTRACTION"
	OpMultiplication Operator = "MULTIPLICATION"
	// Division is deliberately absent: no divide-by-zero or non-integer
	// answers to worry about.
)

var operators = []Operator{OpAddition, OpSubtraction, OpMultiplication}

// Question is a single arithmetic problem with its answer precomputed at
// creation time. Immutable once generated.
type Question struct {
	Operator Operator `json:"operator"`
	Operand1 int      `json:"operand1"`
	Operand2 int      `json:"operand2"`
	Answer   int      `json:"answer"`
}

func NewQuestion(op Operator, operand1, operand2 int) Question {
	return Question{
		Operator: op,
		Operand1: operand1,
		Operand2: operand2,
		Answer:   solve(op, operand1, operand2),
	}
}

func solve(op Operator, a, b int) int {
	switch op {
	case OpAddition:
		return a + b
	case OpSubtraction:
		return a - b
	case OpMultiplication:
		return a * b
	default:
		return 0
	}
}

// GenerateQuestion picks an operator uniformly at random and both operands
// uniformly in [1,10]. Not seeded; sessions don't need reproducible sequences.
func GenerateQuestion() Question {
	op := operators[rand.Intn(len(operators))]
	return NewQuestion(op, rand.Intn(10)+1, rand.Intn(10)+1)
}

// NewQuestionSet builds the fixed question sequence for one game.
func NewQuestionSet() []Question {
	qs := make([]Question, QuestionCount)
	for i := range qs {
		qs[i] = GenerateQuestion()
	}
	return qs
}
