package commands

import (
	"context"
	"fmt"
	"io"

	"typeshift/src/args"
	"typeshift/src/config"
	"typeshift/src/constraint"
	"typeshift/src/datavalue"
)

// RunEvaluate checks a filter condition on a Number or Percentage value and
// prints the outcome. Without a constraint the value is a Number.
func RunEvaluate(ctx context.Context, evaluateArgs *args.EvaluateArgs, manager *constraint.Manager, out io.Writer) error {
	c, err := parseConstraint(evaluateArgs.Constraint)
	if err != nil {
		return err
	}

	var wrap func(value string) datavalue.NumericDataValue
	switch cfg := constraintConfig(c).(type) {
	case config.PercentageConfig:
		wrap = func(value string) datavalue.NumericDataValue {
			return datavalue.NewPercentage(value, cfg, manager.Locale())
		}
	case config.NumberConfig:
		wrap = func(value string) datavalue.NumericDataValue {
			return datavalue.NewNumber(value, cfg, manager.Locale())
		}
	default:
		return fmt.Errorf("cannot evaluate conditions on %s values", c.Type)
	}

	operands := make([]datavalue.NumericDataValue, 0, len(evaluateArgs.Operands))
	for _, o := range evaluateArgs.Operands {
		operands = append(operands, wrap(o))
	}
	value := wrap(evaluateArgs.Value)
	result := value.Evaluate(constraint.ConditionType(evaluateArgs.Condition), operands...)

	_, err = fmt.Fprintf(out, "%s %s %v: %t\n", value.Format(), evaluateArgs.Condition, evaluateArgs.Operands, result)
	return err
}

func constraintConfig(c *config.Constraint) config.ConstraintConfig {
	if c == nil {
		return config.NumberConfig{}
	}
	return c.Config
}
