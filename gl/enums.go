// SPDX-License-Identifier: Unlicense OR MIT

package gl

import "fmt"

type (
	Enum     uint32
	Bitfield uint32
)

const (
	FALSE = 0
	TRUE  = 1

	NO_ERROR          = 0x0
	INVALID_ENUM      = 0x0500
	INVALID_VALUE     = 0x0501
	INVALID_OPERATION = 0x0502
	STACK_OVERFLOW    = 0x0503
	STACK_UNDERFLOW   = 0x0504
	OUT_OF_MEMORY     = 0x0505

	POINTS         = 0x0000
	LINES          = 0x0001
	LINE_LOOP      = 0x0002
	LINE_STRIP     = 0x0003
	TRIANGLES      = 0x0004
	TRIANGLE_STRIP = 0x0005
	TRIANGLE_FAN   = 0x0006
	QUADS          = 0x0007

	CULL_FACE            = 0x0b44
	DEPTH_TEST           = 0x0b71
	STENCIL_TEST         = 0x0b90
	ALPHA_TEST           = 0x0bc0
	BLEND                = 0x0be2
	SCISSOR_TEST         = 0x0c11
	TEXTURE_2D           = 0x0de1
	POLYGON_OFFSET_POINT = 0x2a01
	POLYGON_OFFSET_LINE  = 0x2a02
	POLYGON_OFFSET_FILL  = 0x8037

	VERTEX_ARRAY        = 0x8074
	COLOR_ARRAY         = 0x8076
	TEXTURE_COORD_ARRAY = 0x8078

	MODELVIEW  = 0x1700
	PROJECTION = 0x1701
	TEXTURE    = 0x1702

	NEVER    = 0x0200
	LESS     = 0x0201
	EQUAL    = 0x0202
	LEQUAL   = 0x0203
	GREATER  = 0x0204
	NOTEQUAL = 0x0205
	GEQUAL   = 0x0206
	ALWAYS   = 0x0207

	ZERO                  = 0x0
	ONE                   = 0x1
	SRC_COLOR             = 0x0300
	ONE_MINUS_SRC_COLOR   = 0x0301
	SRC_ALPHA             = 0x0302
	ONE_MINUS_SRC_ALPHA   = 0x0303
	DST_ALPHA             = 0x0304
	ONE_MINUS_DST_ALPHA   = 0x0305
	DST_COLOR             = 0x0306
	ONE_MINUS_DST_COLOR   = 0x0307
	SRC_ALPHA_SATURATE    = 0x0308
	FUNC_ADD              = 0x8006
	MIN                   = 0x8007
	MAX                   = 0x8008
	FUNC_SUBTRACT         = 0x800a
	FUNC_REVERSE_SUBTRACT = 0x800b

	KEEP      = 0x1e00
	REPLACE   = 0x1e01
	INCR      = 0x1e02
	DECR      = 0x1e03
	INVERT    = 0x150a
	INCR_WRAP = 0x8507
	DECR_WRAP = 0x8508

	FRONT          = 0x0404
	BACK           = 0x0405
	FRONT_AND_BACK = 0x0408
	CW             = 0x0900
	CCW            = 0x0901

	POINT = 0x1b00
	LINE  = 0x1b01
	FILL  = 0x1b02

	DEPTH_BUFFER_BIT   = 0x0100
	STENCIL_BUFFER_BIT = 0x0400
	COLOR_BUFFER_BIT   = 0x4000

	ARRAY_BUFFER         = 0x8892
	ELEMENT_ARRAY_BUFFER = 0x8893
	STREAM_DRAW          = 0x88e0
	STATIC_DRAW          = 0x88e4
	DYNAMIC_DRAW         = 0x88e8

	BYTE           = 0x1400
	UNSIGNED_BYTE  = 0x1401
	SHORT          = 0x1402
	UNSIGNED_SHORT = 0x1403
	INT            = 0x1404
	UNSIGNED_INT   = 0x1405
	FLOAT          = 0x1406

	RGB  = 0x1907
	RGBA = 0x1908

	TEXTURE0 = 0x84c0

	TEXTURE_MAG_FILTER     = 0x2800
	TEXTURE_MIN_FILTER     = 0x2801
	TEXTURE_WRAP_S         = 0x2802
	TEXTURE_WRAP_T         = 0x2803
	NEAREST                = 0x2600
	LINEAR                 = 0x2601
	NEAREST_MIPMAP_NEAREST = 0x2700
	LINEAR_MIPMAP_NEAREST  = 0x2701
	NEAREST_MIPMAP_LINEAR  = 0x2702
	LINEAR_MIPMAP_LINEAR   = 0x2703
	CLAMP                  = 0x2900
	REPEAT                 = 0x2901
	CLAMP_TO_EDGE          = 0x812f
	MIRRORED_REPEAT        = 0x8370

	TEXTURE_ENV       = 0x2300
	TEXTURE_ENV_MODE  = 0x2200
	TEXTURE_ENV_COLOR = 0x2201
	MODULATE          = 0x2100
	DECAL             = 0x2101

	CURRENT_COLOR     = 0x0b00
	DEPTH_RANGE       = 0x0b70
	DEPTH_CLEAR_VALUE = 0x0b73
	VIEWPORT          = 0x0ba2
	MODELVIEW_MATRIX  = 0x0ba6
	PROJECTION_MATRIX = 0x0ba7
	COLOR_CLEAR_VALUE = 0x0c22
)

var errorNames = map[Enum]string{
	NO_ERROR:          "NO_ERROR",
	INVALID_ENUM:      "INVALID_ENUM",
	INVALID_VALUE:     "INVALID_VALUE",
	INVALID_OPERATION: "INVALID_OPERATION",
	STACK_OVERFLOW:    "STACK_OVERFLOW",
	STACK_UNDERFLOW:   "STACK_UNDERFLOW",
	OUT_OF_MEMORY:     "OUT_OF_MEMORY",
}

func (e Enum) String() string {
	if n, ok := errorNames[e]; ok {
		return n
	}
	return fmt.Sprintf("0x%04x", uint32(e))
}
