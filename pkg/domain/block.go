package domain

// Block types understood by the compiler. They match the names used by the
// block editor toolbox.
const (
	BlockForwardJump      = "F_Jump"
	BlockForwardRightJump = "FR_Jump"
	BlockForwardLeftJump  = "FL_Jump"
	BlockTurn             = "Turn"
	BlockRepeat           = "controls_repeat_ext"
	BlockNumber           = "math_number"
)

// Field and input names read from blocks.
const (
	FieldValue  = "VALUE"
	FieldNumber = "NUM"
	InputTimes  = "TIMES"
	InputDo     = "DO"
)

// DefaultRepeatTimes is used when a repeat block has no usable TIMES literal.
const DefaultRepeatTimes = 2
