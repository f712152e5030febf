package interact

// Source identifies the kind of pointer driving a gesture.
type Source int

const (
	SourceMouse Source = iota
	SourceTouch
)

func (s Source) String() string {
	if s == SourceTouch {
		return "touch"
	}

	return "mouse"
}

// mouseID is the pointer id used for the single mouse pointer.
const mouseID = 0

// MouseDown starts a mouse drag at vertical position y.
func (c *Control) MouseDown(y float64) { c.PointerDown(SourceMouse, mouseID, y) }

// MouseMove follows the mouse.
func (c *Control) MouseMove(y float64) { c.PointerMove(SourceMouse, mouseID, y) }

// MouseUp releases the mouse drag.
func (c *Control) MouseUp() { c.PointerUp(SourceMouse, mouseID) }

// TouchStart starts a drag for touch id at vertical position y.
func (c *Control) TouchStart(id int, y float64) { c.PointerDown(SourceTouch, id, y) }

// TouchMove follows touch id; other touches are ignored.
func (c *Control) TouchMove(id int, y float64) { c.PointerMove(SourceTouch, id, y) }

// TouchEnd releases touch id.
func (c *Control) TouchEnd(id int) { c.PointerUp(SourceTouch, id) }
