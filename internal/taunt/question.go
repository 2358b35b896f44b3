package taunt

import (
	"fmt"
	"math/rand"
	"strconv"
)

const (
	MinFactor = 2
	MaxFactor = 12

	// maxDecoys is how many wrong answers a menu offers at most.
	maxDecoys = 4
)

// Question is a multiplication challenge.
type Question struct {
	A int
	B int
}

// NewQuestion draws both factors from [MinFactor, MaxFactor].
func NewQuestion(rng *rand.Rand) Question {
	return Question{
		A: MinFactor + rng.Intn(MaxFactor-MinFactor+1),
		B: MinFactor + rng.Intn(MaxFactor-MinFactor+1),
	}
}

func (q Question) Answer() int { return q.A * q.B }

func (q Question) Placeholder() string {
	return fmt.Sprintf("What's %d * %d?", q.A, q.B)
}

// Options returns the correct answer plus up to four decoys from
// [answer/2, answer*2), deduplicated and shuffled. Fewer decoys are returned
// when the range is too small to supply four distinct values.
func (q Question) Options(rng *rand.Rand) []int {
	answer := q.Answer()

	var pool []int
	for n := answer / 2; n < answer*2; n++ {
		if n != answer {
			pool = append(pool, n)
		}
	}

	decoys := min(maxDecoys, len(pool))
	// partial Fisher-Yates: the first `decoys` entries become a random sample
	for i := 0; i < decoys; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	options := append([]int{answer}, pool[:decoys]...)
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// ParseChoice converts a select menu value back into a number.
func ParseChoice(value string) (int, bool) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}
