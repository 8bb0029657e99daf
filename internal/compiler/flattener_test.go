package compiler_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/aretw0/robobunny/internal/compiler"
	"github.com/aretw0/robobunny/pkg/adapters/memory"
	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/aretw0/robobunny/pkg/dsl"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten_EmptyGraph(t *testing.T) {
	p := compiler.Flatten(nil)
	require.NotNil(t, p)
	assert.Empty(t, p)
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *dsl.Builder)
		want  domain.Program
	}{
		{
			name: "actions in order",
			build: func(b *dsl.Builder) {
				b.Jump(1)
				b.RightJump(2)
				b.LeftJump(1)
				b.Turn(domain.DirectionBack)
			},
			want: domain.Program{
				domain.Jump(domain.CommandForward, 1),
				domain.Jump(domain.CommandForwardRight, 2),
				domain.Jump(domain.CommandForwardLeft, 1),
				domain.Turn(domain.DirectionBack),
			},
		},
		{
			name: "repeat unrolls body",
			build: func(b *dsl.Builder) {
				b.Repeat(3).Do(func(body *dsl.Builder) {
					body.Jump(1)
					body.Turn(domain.DirectionRight)
				})
				b.Jump(2)
			},
			want: domain.Program{
				domain.Forward(1), domain.Turn(domain.DirectionRight),
				domain.Forward(1), domain.Turn(domain.DirectionRight),
				domain.Forward(1), domain.Turn(domain.DirectionRight),
				domain.Forward(2),
			},
		},
		{
			name: "nested repeats multiply",
			build: func(b *dsl.Builder) {
				b.Repeat(2).Do(func(outer *dsl.Builder) {
					outer.Turn(domain.DirectionLeft)
					outer.Repeat(3).Do(func(inner *dsl.Builder) {
						inner.Jump(1)
					})
				})
			},
			want: domain.Program{
				domain.Turn(domain.DirectionLeft), domain.Forward(1), domain.Forward(1), domain.Forward(1),
				domain.Turn(domain.DirectionLeft), domain.Forward(1), domain.Forward(1), domain.Forward(1),
			},
		},
		{
			name: "disabled block skipped without breaking chain",
			build: func(b *dsl.Builder) {
				b.Jump(1)
				b.Turn(domain.DirectionRight).Disable()
				b.Jump(2)
			},
			want: domain.Program{domain.Forward(1), domain.Forward(2)},
		},
		{
			name: "disabled repeat does not descend",
			build: func(b *dsl.Builder) {
				b.Repeat(4).Disable().Do(func(body *dsl.Builder) { body.Jump(1) })
				b.Turn(domain.DirectionLeft)
			},
			want: domain.Program{domain.Turn(domain.DirectionLeft)},
		},
		{
			name: "empty body contributes nothing",
			build: func(b *dsl.Builder) {
				b.Repeat(10)
				b.Repeat(3).Do(func(body *dsl.Builder) { body.Jump(1).Disable() })
			},
			want: domain.Program{},
		},
		{
			name: "missing TIMES defaults to two",
			build: func(b *dsl.Builder) {
				b.Repeat(9).TimesBlock(nil).Do(func(body *dsl.Builder) { body.Jump(1) })
			},
			want: domain.Program{domain.Forward(1), domain.Forward(1)},
		},
		{
			name: "non literal TIMES defaults to two",
			build: func(b *dsl.Builder) {
				b.Repeat(9).TimesBlock(memory.NewBlock("variables_get")).Do(func(body *dsl.Builder) { body.Jump(2) })
			},
			want: domain.Program{domain.Forward(2), domain.Forward(2)},
		},
		{
			name: "non numeric TIMES defaults to two",
			build: func(b *dsl.Builder) {
				b.Repeat(1).Times("many").Do(func(body *dsl.Builder) { body.Turn(domain.DirectionBack) })
			},
			want: domain.Program{domain.Turn(domain.DirectionBack), domain.Turn(domain.DirectionBack)},
		},
		{
			name: "zero TIMES defaults to two",
			build: func(b *dsl.Builder) {
				b.Repeat(0).Do(func(body *dsl.Builder) { body.Jump(1) })
			},
			want: domain.Program{domain.Forward(1), domain.Forward(1)},
		},
		{
			name: "negative TIMES contributes nothing",
			build: func(b *dsl.Builder) {
				b.Repeat(-3).Do(func(body *dsl.Builder) { body.Jump(1) })
			},
			want: domain.Program{},
		},
		{
			name: "TIMES text is parsed by integer prefix",
			build: func(b *dsl.Builder) {
				b.Repeat(0).Times("3.9").Do(func(body *dsl.Builder) { body.Jump(1) })
			},
			want: domain.Program{domain.Forward(1), domain.Forward(1), domain.Forward(1)},
		},
		{
			name: "unknown block types are skipped",
			build: func(b *dsl.Builder) {
				b.Add("text_print")
				b.Jump(1)
				b.Add("Repeat")
			},
			want: domain.Program{domain.Forward(1)},
		},
		{
			name: "jump value is coerced to int",
			build: func(b *dsl.Builder) {
				b.Jump(0).Value("2")
				b.Jump(0).Value("oops")
			},
			want: domain.Program{domain.Forward(2), domain.Forward(0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := dsl.New()
			tt.build(b)

			got := compiler.Flatten(b.Build())
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Flatten() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlatten_Deterministic(t *testing.T) {
	b := dsl.New()
	b.Jump(1)
	b.Repeat(3).Do(func(body *dsl.Builder) {
		body.Turn(domain.DirectionRight)
		body.Repeat(2).Do(func(inner *dsl.Builder) { inner.RightJump(2) })
	})
	root := b.Build()

	first := compiler.Flatten(root)
	second := compiler.Flatten(root)

	assert.Len(t, first, 1+3*(1+2))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second flatten differs (-first +second):\n%s", diff)
	}
}

func TestFlatten_CopiesAreIndependent(t *testing.T) {
	b := dsl.New()
	b.Repeat(3).Do(func(body *dsl.Builder) { body.Jump(1) })

	p := compiler.Flatten(b.Build())
	require.Len(t, p, 3)

	p[0].Steps = 2
	p[0].Kind = domain.CommandTurn

	assert.Equal(t, domain.Forward(1), p[1])
	assert.Equal(t, domain.Forward(1), p[2])
}

func TestFlatten_DoesNotMutateGraph(t *testing.T) {
	b := dsl.New()
	b.Repeat(2).Do(func(body *dsl.Builder) { body.Jump(1) })
	root := b.Build()

	_ = compiler.Flatten(root)

	assert.Equal(t, "2", root.Input(domain.InputTimes).FieldValue(domain.FieldNumber))
	assert.Equal(t, "1", root.Input(domain.InputDo).FieldValue(domain.FieldValue))
	assert.Nil(t, root.NextBlock())
}

func TestFlattener_LogsSkippedBlocks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	b := dsl.New()
	b.Add("logic_compare")

	p := compiler.New(compiler.WithLogger(logger)).Flatten(b.Build())

	assert.Empty(t, p)
	assert.Contains(t, buf.String(), "type=logic_compare")
}

func TestCountBlocks(t *testing.T) {
	b := dsl.New()
	b.Jump(1)
	b.Turn(domain.DirectionLeft).Disable()
	b.Repeat(2).Do(func(body *dsl.Builder) {
		body.Jump(1)
		body.Repeat(3).Do(func(inner *dsl.Builder) { inner.Jump(2) })
	})

	// 2 top actions + repeat + its number + body jump + inner repeat + number + inner jump
	assert.Equal(t, 8, compiler.CountBlocks(b.Build()))
	assert.Equal(t, 0, compiler.CountBlocks(nil))
}

func TestDescribe(t *testing.T) {
	out := compiler.Describe(domain.Program{domain.Forward(2), domain.Turn(domain.DirectionRight)})
	assert.Equal(t, "1. F_Jump(2)\n2. Turn(右)\n", out)
}

func TestFlatten_TypedNilRoot(t *testing.T) {
	var root *memory.Block
	assert.Empty(t, compiler.Flatten(root))
}
