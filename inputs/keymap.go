package inputs

// GLFW key codes whose browser key code differs. Space, digits and letters
// share both encodings.
var glfwToBrowser = map[int]int{
	39:  222, // apostrophe
	44:  188, // comma
	45:  189, // minus
	46:  190, // period
	47:  191, // slash
	59:  186, // semicolon
	61:  187, // equal
	91:  219, // left bracket
	92:  220, // backslash
	93:  221, // right bracket
	96:  192, // grave accent
	256: 27,  // escape
	257: 13,  // enter
	258: 9,   // tab
	259: 8,   // backspace
	260: 45,  // insert
	261: 46,  // delete
	262: 39,  // right
	263: 37,  // left
	264: 40,  // down
	265: 38,  // up
	266: 33,  // page up
	267: 34,  // page down
	268: 36,  // home
	269: 35,  // end
	280: 20,  // caps lock
	335: 13,  // keypad enter
	340: 16,  // left shift
	341: 17,  // left control
	342: 18,  // left alt
	344: 16,  // right shift
	345: 17,  // right control
	346: 18,  // right alt
}

// BrowserKeyCode maps a GLFW key code to the browser key code Shadertoy
// shaders index their keyboard channel with.
func BrowserKeyCode(key int) (int, bool) {
	switch {
	case key == 32, key >= 48 && key <= 57, key >= 65 && key <= 90:
		return key, true
	case key >= 290 && key <= 301: // F1-F12
		return key - 290 + 112, true
	case key >= 320 && key <= 329: // keypad digits
		return key - 320 + 96, true
	}
	code, ok := glfwToBrowser[key]
	return code, ok
}
