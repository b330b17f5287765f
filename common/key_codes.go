package common

// Key codes the scene reacts to. Printable keys use their ASCII value, which is also the GLFW key
// code, so window backends can pass codes through unchanged.
const (
	// Key1 through Key4 select the panel field that Q and E step.
	Key1 = 49
	Key2 = 50
	Key3 = 51
	Key4 = 52

	KeyE = 69 // step the selected field up
	KeyQ = 81 // step the selected field down
	KeyR = 82 // scroll back to the top
)
