package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spindleworks/spindle/tool"
)

type timeArgs struct {
	Timezone string `json:"timezone,omitempty" desc:"IANA timezone name, e.g. America/New_York. Defaults to UTC."`
}

type calcArgs struct {
	A  float64 `json:"a" required:"true" desc:"First operand"`
	B  float64 `json:"b" required:"true" desc:"Second operand"`
	Op string  `json:"op" required:"true" desc:"Operation to apply" enum:"add,sub,mul,div"`
}

type echoArgs struct {
	Text   string `json:"text" required:"true" desc:"Text to echo back"`
	Repeat int    `json:"repeat,omitempty" desc:"Number of repetitions, default 1"`
}

// SetupDemoTools registers a small set of local tools so the server is
// usable out of the box.
func SetupDemoTools(registry *tool.Registry) {
	registry.Add(
		tool.Func("get_time", "Get the current time, optionally in a timezone", func(ctx context.Context, args timeArgs) (string, error) {
			loc := time.UTC
			if args.Timezone != "" {
				var err error
				loc, err = time.LoadLocation(args.Timezone)
				if err != nil {
					return "", fmt.Errorf("unknown timezone %q", args.Timezone)
				}
			}
			return time.Now().In(loc).Format(time.RFC3339), nil
		}),
		tool.Func("calculate", "Apply a basic arithmetic operation to two numbers", func(ctx context.Context, args calcArgs) (string, error) {
			var result float64
			switch args.Op {
			case "add":
				result = args.A + args.B
			case "sub":
				result = args.A - args.B
			case "mul":
				result = args.A * args.B
			case "div":
				if args.B == 0 {
					return "", fmt.Errorf("division by zero")
				}
				result = args.A / args.B
			default:
				return "", fmt.Errorf("unknown operation %q", args.Op)
			}
			return fmt.Sprintf("%g", result), nil
		}),
		tool.Func("echo", "Echo text back, optionally repeated", func(ctx context.Context, args echoArgs) (string, error) {
			n := args.Repeat
			if n < 1 {
				n = 1
			}
			return strings.TrimSpace(strings.Repeat(args.Text+" ", n)), nil
		}),
	)
}
