package templates

// SlotsG are the values substituted into template G
type SlotsG struct {
	Current string
	WTG     string
	ATLRT   string
	ATNext  string
}

// The "ls" operator in the second AT_less is the controller's own spelling.
const textG = `(EG_{cur}=true and AT_less(0, le, {at})) or (WTG({wtg})=true and AT_less(0, ls, {at_next}))`

var skeletonG = register(Skeleton{
	Name:          "G",
	Template:      G,
	WithDemand:    textG,
	WithoutDemand: textG,
})

// RenderG renders an LRT stage chaining into another LRT stage
func RenderG(s SlotsG) (string, error) {
	return skeletonG.Fill(map[Slot]string{
		SlotCurrent: s.Current,
		SlotWTG:     s.WTG,
		SlotAT:      s.ATLRT,
		SlotATNext:  s.ATNext,
	})
}
