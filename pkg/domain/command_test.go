package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_JSON(t *testing.T) {
	program := domain.Program{
		domain.Forward(2),
		domain.Jump(domain.CommandForwardRight, 1),
		domain.Turn(domain.DirectionBack),
		domain.Repeat(3, domain.Jump(domain.CommandForwardLeft, 1)),
	}

	data, err := json.Marshal(program)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"type":"F_Jump","value":2},
		{"type":"FR_Jump","value":1},
		{"type":"Turn","value":"後"},
		{"type":"Repeat","times":3,"body":[{"type":"FL_Jump","value":1}]}
	]`, string(data))

	var decoded domain.Program
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, program, decoded)
}

func TestCommand_UnmarshalStringValues(t *testing.T) {
	var p domain.Program
	err := json.Unmarshal([]byte(`[{"type":"F_Jump","value":"3"},{"type":"FL_Jump","value":" 2x"},{"type":"Turn","value":"右"}]`), &p)
	require.NoError(t, err)

	assert.Equal(t, domain.Program{
		domain.Forward(3),
		domain.Jump(domain.CommandForwardLeft, 2),
		domain.Turn(domain.DirectionRight),
	}, p)
}

func TestCommand_UnmarshalRejectsBadValue(t *testing.T) {
	var c domain.Command
	assert.Error(t, json.Unmarshal([]byte(`{"type":"F_Jump","value":{"n":1}}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"type":"Turn","value":5}`), &c))
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "F_Jump(2)", domain.Forward(2).String())
	assert.Equal(t, "Turn(左)", domain.Turn(domain.DirectionLeft).String())
	assert.Equal(t, "Repeat(2)[F_Jump(1)]", domain.Repeat(2, domain.Forward(1)).String())
	assert.Equal(t, "Teleport", domain.Command{Kind: "Teleport"}.String())
}

func TestCommand_Value(t *testing.T) {
	assert.Equal(t, 4, domain.Forward(4).Value())
	assert.Equal(t, domain.DirectionBack, domain.Turn(domain.DirectionBack).Value())
	assert.Nil(t, domain.Repeat(2).Value())
}

func TestProgram_Expand(t *testing.T) {
	p := domain.Program{
		domain.Turn(domain.DirectionRight),
		domain.Repeat(2,
			domain.Forward(1),
			domain.Repeat(2, domain.Jump(domain.CommandForwardRight, 1)),
		),
		domain.Repeat(0, domain.Forward(9)),
		domain.Repeat(-1, domain.Forward(9)),
	}

	assert.Equal(t, domain.Program{
		domain.Turn(domain.DirectionRight),
		domain.Forward(1),
		domain.Jump(domain.CommandForwardRight, 1),
		domain.Jump(domain.CommandForwardRight, 1),
		domain.Forward(1),
		domain.Jump(domain.CommandForwardRight, 1),
		domain.Jump(domain.CommandForwardRight, 1),
	}, p.Expand())
}

func TestProgram_CloneIsDeep(t *testing.T) {
	orig := domain.Program{domain.Repeat(2, domain.Forward(1))}
	cp := orig.Clone()
	cp[0].Body[0].Steps = 7

	assert.Equal(t, 1, orig[0].Body[0].Steps)
	assert.NotNil(t, domain.Program(nil).Clone())
}

func TestProgram_Equal(t *testing.T) {
	a := domain.Program{domain.Turn(domain.DirectionLeft), domain.Repeat(2, domain.Forward(1))}

	assert.True(t, a.Equal(a.Clone()))
	assert.True(t, domain.Program(nil).Equal(domain.Program{}))
	assert.False(t, a.Equal(a[:1]))
	assert.False(t, a.Equal(domain.Program{domain.Turn(domain.DirectionLeft), domain.Repeat(2, domain.Forward(2))}))
	assert.False(t, a.Equal(domain.Program{domain.Turn(domain.DirectionRight), domain.Repeat(2, domain.Forward(1))}))
	assert.True(t, domain.Forward(3).Equal(domain.Jump(domain.CommandForward, 3)))
}

func TestParseLeadingInt(t *testing.T) {
	cases := map[string]int{
		"3":     3,
		" 12 ":  12,
		"5abc":  5,
		"-4":    -4,
		"+2":    2,
		"abc":   0,
		"":      0,
		"-":     0,
		"3.9":   3,
		"007":   7,
		"1e3":   1,
		"99999999999999999999": 0,
	}
	for in, want := range cases {
		assert.Equal(t, want, domain.ParseLeadingInt(in), "input %q", in)
	}
}

func TestHeading_Rotate(t *testing.T) {
	assert.Equal(t, domain.HeadingRight, domain.HeadingUp.Rotate(1))
	assert.Equal(t, domain.HeadingLeft, domain.HeadingUp.Rotate(-1))
	assert.Equal(t, domain.HeadingDown, domain.HeadingUp.Rotate(2))
	assert.Equal(t, domain.HeadingUp, domain.HeadingLeft.Rotate(5))
	assert.Equal(t, domain.Heading("north"), domain.Heading("north").Rotate(1))
}

func TestDirection_Valid(t *testing.T) {
	assert.True(t, domain.DirectionRight.Valid())
	assert.True(t, domain.DirectionBack.Valid())
	assert.False(t, domain.Direction("up").Valid())
}
