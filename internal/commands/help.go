package commands

const helpText = "Commands:\n" +
	"[MouseLeftClick]          - Performs a mouse left click.\n" +
	"[MouseRightClick]         - Performs a mouse right click.\n" +
	"[MouseLeftUp]             - Sets mouse left up at a position.\n" +
	"[MouseLeftDown]           - Sets mouse left down at a position.\n" +
	"[MouseRightUp]            - Sets mouse right up at a position.\n" +
	"[MouseRightDown]          - Sets mouse right down at a position.\n" +
	"[SetMousePosition]        - Sets mouse position on screen.\n" +
	"[SendKeys]                - Sends the specified key strokes.\n" +
	"[Help]                    - Displays a list of commands.\n" +
	"[Exit]                    - Exits the program."
