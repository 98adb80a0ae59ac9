//go:build board_w6300_evb

package boards

// Selected is the board this binary was built for.
var Selected = &W6300EVB
