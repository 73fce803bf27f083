package keypad

// FromKeyboard maps a terminal key name to a keypad symbol. Digits, '*' and
// '#' map to themselves; a-d select the letter column. The numeric keypad's
// '/' and '-' stand in for '*' and '#' on layouts without easy access to
// them.
func FromKeyboard(key string) (rune, bool) {
	switch key {
	case "/":
		return '*', true
	case "-":
		return '#', true
	}
	if len([]rune(key)) != 1 {
		return 0, false
	}
	k, err := Find([]rune(key)[0])
	if err != nil {
		return 0, false
	}
	return k.Symbol, true
}
