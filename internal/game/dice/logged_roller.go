package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger. Every roll it performs is logged at debug
// level with the dice, the realised faces and the total.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// RollAll rolls every group of spec in order and logs each group.
//
// Postcondition: len(result) == len(spec.Dice).
func (r *Roller) RollAll(spec Roll) []RolledDice {
	out := RollAll(spec, r.src)
	for _, rd := range out {
		r.logger.Debug("dice roll",
			zap.String("dice", rd.Dice.String()),
			zap.Ints("results", rd.Results),
			zap.Int("total", rd.Sum()),
		)
	}
	return out
}

// Evaluate rolls expr and logs the result at debug level.
//
// Precondition: expr must come from Parse.
func (r *Roller) Evaluate(expr Expression) RollResult {
	result := Evaluate(expr, r.src)
	r.logger.Debug("dice expression",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// EvaluateString parses expr and rolls it, logging the result.
//
// Postcondition: Returns a RollResult or a parse error.
func (r *Roller) EvaluateString(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.Evaluate(e), nil
}
