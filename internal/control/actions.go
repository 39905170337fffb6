package control

// Message types accepted from clients.
const (
	// TypeKey dispatches one key transition.
	TypeKey = "key"
	// TypeTap dispatches a press and a release.
	TypeTap = "tap"
	// TypeSpeedCurve replaces the speed curve; an empty curve restores the default.
	TypeSpeedCurve = "speedCurve"
	// TypeAngle sets the orbital heading.
	TypeAngle = "angle"
	// TypeSetMac overrides the host OS hotkey style; a null mac restores auto.
	TypeSetMac = "setMac"
	// TypeInputEnabled toggles injection; disabling releases held input.
	TypeInputEnabled = "inputEnabled"
	// TypeState requests a state reply.
	TypeState = "state"
)

// Reply types sent to clients.
const (
	// ReplyState carries a State.
	ReplyState = "state"
	// ReplyError reports a rejected message.
	ReplyError = "error"
)
