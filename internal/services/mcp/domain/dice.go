package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/dicenotation/internal/dice"
	platformotel "github.com/louisbranch/dicenotation/internal/platform/otel"
	"github.com/louisbranch/dicenotation/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Tool names.
const (
	DiceParseToolName     = "dice_parse"
	DiceRollToolName      = "dice_roll"
	DiceTransformToolName = "dice_transform"
)

// maxRollTimes caps how many times a single dice_roll call repeats a roll.
const maxRollTimes = 100

// Transform operation names accepted by dice_transform.
const (
	OpAdd        = "add"
	OpSub        = "sub"
	OpReroll     = "reroll"
	OpScaleCount = "scale_count"
	OpScaleFaces = "scale_faces"
	OpScaleSets  = "scale_sets"
)

var errMinimumNegative = errors.New("minimum must be non-negative")

// SpecSummary describes a parsed dice spec.
type SpecSummary struct {
	Notation    string `json:"notation" jsonschema:"canonical notation of the spec"`
	Count       int    `json:"count" jsonschema:"dice per set"`
	Faces       int    `json:"faces" jsonschema:"faces per die"`
	Sets        int    `json:"sets" jsonschema:"number of sets rolled"`
	Bonus       int    `json:"bonus" jsonschema:"signed bonus"`
	BonusPerDie bool   `json:"bonus_per_die" jsonschema:"whether the bonus applies to every die"`
	Reroll      int    `json:"reroll" jsonschema:"extra dice drawn; positive keeps the best, negative the worst"`
	Minimum     int    `json:"minimum" jsonschema:"lowest total a set can produce"`
}

// DiceParseInput represents the MCP tool input for parsing notation.
type DiceParseInput struct {
	Notation string `json:"notation" jsonschema:"dice notation such as 2d6+3 or (4d6^+1)x6"`
	Minimum  *int   `json:"minimum,omitempty" jsonschema:"optional lowest set total, defaults to 1"`
}

// DiceParseResult represents the MCP tool output for parsing notation.
type DiceParseResult struct {
	Spec SpecSummary `json:"spec" jsonschema:"parsed spec"`
}

// DiceRollInput represents the MCP tool input for rolling notation.
type DiceRollInput struct {
	Notation string      `json:"notation" jsonschema:"dice notation to roll"`
	Minimum  *int        `json:"minimum,omitempty" jsonschema:"optional lowest set total, defaults to 1"`
	Times    int         `json:"times,omitempty" jsonschema:"how many times to roll, defaults to 1"`
	Rng      *RngRequest `json:"rng,omitempty" jsonschema:"optional rng configuration"`
}

// DiceSetResult represents one rolled set.
type DiceSetResult struct {
	Kept    []int `json:"kept" jsonschema:"dice counted toward the total"`
	Dropped []int `json:"dropped,omitempty" jsonschema:"dice discarded by a reroll"`
	Total   int   `json:"total" jsonschema:"set total"`
}

// DiceRoll represents the sets produced by one roll.
type DiceRoll struct {
	Sets   []DiceSetResult `json:"sets" jsonschema:"results for each set"`
	Totals []int           `json:"totals" jsonschema:"total of each set"`
}

// DiceRollResult represents the MCP tool output for rolling notation.
type DiceRollResult struct {
	Notation string     `json:"notation" jsonschema:"notation that was rolled"`
	Rolls    []DiceRoll `json:"rolls" jsonschema:"one entry per repetition"`
	Rng      *RngResult `json:"rng,omitempty" jsonschema:"rng details"`
}

// DiceOperation represents one operator applied by dice_transform.
type DiceOperation struct {
	Op    string `json:"op" jsonschema:"one of add, sub, reroll, scale_count, scale_faces, scale_sets"`
	Value int    `json:"value" jsonschema:"operand"`
}

// DiceTransformInput represents the MCP tool input for applying operators.
type DiceTransformInput struct {
	Notation   string          `json:"notation" jsonschema:"starting dice notation"`
	Operations []DiceOperation `json:"operations" jsonschema:"operators applied in order"`
}

// DiceTransformStep reports the spec after one operator.
type DiceTransformStep struct {
	Op       string `json:"op" jsonschema:"operator applied"`
	Value    int    `json:"value" jsonschema:"operand"`
	Notation string `json:"notation" jsonschema:"notation after the operator"`
	Changed  bool   `json:"changed" jsonschema:"false when a scale operator refused the change"`
}

// DiceTransformResult represents the MCP tool output for applying operators.
type DiceTransformResult struct {
	Steps []DiceTransformStep `json:"steps" jsonschema:"spec after each operator"`
	Spec  SpecSummary         `json:"spec" jsonschema:"final spec"`
}

// DiceParseTool defines the MCP tool schema for parsing notation.
func DiceParseTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        DiceParseToolName,
		Description: "Parses dice notation and reports its parts",
	}
}

// DiceRollTool defines the MCP tool schema for rolling notation.
func DiceRollTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        DiceRollToolName,
		Description: "Rolls dice notation, optionally with a seed for replay",
	}
}

// DiceTransformTool defines the MCP tool schema for applying operators.
func DiceTransformTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        DiceTransformToolName,
		Description: "Applies bonus, reroll and scale operators to dice notation",
	}
}

// DiceParseHandler parses notation into its parts.
func DiceParseHandler(env Env) mcp.ToolHandlerFor[DiceParseInput, DiceParseResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DiceParseInput) (_ *mcp.CallToolResult, _ DiceParseResult, err error) {
		_, finish := env.observe(ctx, DiceParseToolName, input.Notation)
		defer func() { finish(err) }()

		minimum, err := resolveMinimum(input.Minimum)
		if err != nil {
			return nil, DiceParseResult{}, err
		}
		spec, err := env.parse(strings.TrimSpace(input.Notation), minimum)
		if err != nil {
			return nil, DiceParseResult{}, err
		}
		summary, err := summarize(spec)
		if err != nil {
			return nil, DiceParseResult{}, err
		}
		return nil, DiceParseResult{Spec: summary}, nil
	}
}

// DiceRollHandler rolls notation with a seeded source.
func DiceRollHandler(env Env) mcp.ToolHandlerFor[DiceRollInput, DiceRollResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DiceRollInput) (_ *mcp.CallToolResult, _ DiceRollResult, err error) {
		ctx, finish := env.observe(ctx, DiceRollToolName, input.Notation)
		defer func() { finish(err) }()

		minimum, err := resolveMinimum(input.Minimum)
		if err != nil {
			return nil, DiceRollResult{}, err
		}
		times := input.Times
		if times == 0 {
			times = 1
		}
		if times < 0 || times > maxRollTimes {
			return nil, DiceRollResult{}, fmt.Errorf("times must be between 1 and %d", maxRollTimes)
		}

		spec, err := env.parse(strings.TrimSpace(input.Notation), minimum)
		if err != nil {
			return nil, DiceRollResult{}, err
		}
		perRoll, err := spec.TotalDice()
		if err != nil {
			return nil, DiceRollResult{}, err
		}
		if times > dice.MaxDice/max(perRoll, 1) {
			return nil, DiceRollResult{}, fmt.Errorf("%d rolls of %d dice exceed the limit of %d dice per call", times, perRoll, dice.MaxDice)
		}
		source, rng, err := resolveSource(input.Rng, env.seedFunc())
		if err != nil {
			return nil, DiceRollResult{}, err
		}

		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		rolls := make([]DiceRoll, 0, times)
		for range times {
			if err := runCtx.Err(); err != nil {
				return nil, DiceRollResult{}, fmt.Errorf("dice roll interrupted: %w", err)
			}
			detail, err := spec.RollDetail(source, minimum)
			if err != nil {
				return nil, DiceRollResult{}, fmt.Errorf("dice roll failed: %w", err)
			}
			env.Metrics.RecordRoll(spec.Sets(), spec.Count()+abs(spec.Reroll()))
			rolls = append(rolls, rollFromDetail(detail))
		}

		return nil, DiceRollResult{
			Notation: spec.String(),
			Rolls:    rolls,
			Rng:      rng,
		}, nil
	}
}

// DiceTransformHandler applies operators in order and reports every step.
func DiceTransformHandler(env Env) mcp.ToolHandlerFor[DiceTransformInput, DiceTransformResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DiceTransformInput) (_ *mcp.CallToolResult, _ DiceTransformResult, err error) {
		_, finish := env.observe(ctx, DiceTransformToolName, input.Notation)
		defer func() { finish(err) }()

		spec, err := env.parse(strings.TrimSpace(input.Notation), 1)
		if err != nil {
			return nil, DiceTransformResult{}, err
		}

		steps := make([]DiceTransformStep, 0, len(input.Operations))
		for i, operation := range input.Operations {
			next, changed, err := applyOperation(spec, operation)
			if err != nil {
				return nil, DiceTransformResult{}, fmt.Errorf("operation %d: %w", i, err)
			}
			spec = next
			steps = append(steps, DiceTransformStep{
				Op:       operation.Op,
				Value:    operation.Value,
				Notation: spec.String(),
				Changed:  changed,
			})
		}

		summary, err := summarize(spec)
		if err != nil {
			return nil, DiceTransformResult{}, err
		}
		return nil, DiceTransformResult{Steps: steps, Spec: summary}, nil
	}
}

func applyOperation(spec *dice.Spec, operation DiceOperation) (*dice.Spec, bool, error) {
	switch strings.ToLower(strings.TrimSpace(operation.Op)) {
	case OpAdd:
		return spec.AddBonus(operation.Value), true, nil
	case OpSub:
		return spec.SubBonus(operation.Value), true, nil
	case OpReroll:
		return spec.RerollBy(operation.Value), true, nil
	case OpScaleCount:
		result := spec.ScaleCount(operation.Value)
		return result.Spec(), result.Changed(), nil
	case OpScaleFaces:
		result := spec.ScaleFaces(operation.Value)
		return result.Spec(), result.Changed(), nil
	case OpScaleSets:
		result := spec.ScaleSets(operation.Value)
		return result.Spec(), result.Changed(), nil
	default:
		return nil, false, fmt.Errorf("operation %q is not supported", operation.Op)
	}
}

func resolveMinimum(value *int) (int, error) {
	if value == nil {
		return 1, nil
	}
	if *value < 0 {
		return 0, errMinimumNegative
	}
	return *value, nil
}

func summarize(spec *dice.Spec) (SpecSummary, error) {
	notation, err := spec.Notation()
	if err != nil {
		return SpecSummary{}, err
	}
	return SpecSummary{
		Notation:    notation,
		Count:       spec.Count(),
		Faces:       spec.Faces(),
		Sets:        spec.Sets(),
		Bonus:       spec.Bonus(),
		BonusPerDie: spec.BonusPerDie(),
		Reroll:      spec.Reroll(),
		Minimum:     spec.Minimum(),
	}, nil
}

func rollFromDetail(detail dice.RollResult) DiceRoll {
	sets := make([]DiceSetResult, 0, len(detail.Sets))
	for _, set := range detail.Sets {
		sets = append(sets, DiceSetResult{
			Kept:    set.Kept,
			Dropped: set.Dropped,
			Total:   set.Total,
		})
	}
	return DiceRoll{Sets: sets, Totals: detail.Totals()}
}

// observe opens a span for a tool call and returns the func that ends it
// and records the call metrics.
func (e Env) observe(ctx context.Context, tool, notation string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := platformotel.Tracer().Start(ctx, "mcp."+tool)
	span.SetAttributes(
		attribute.String("mcp.tool", tool),
		attribute.String("dice.notation", notation),
	)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		e.Metrics.ObserveToolCall(tool, err, time.Since(start))
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
