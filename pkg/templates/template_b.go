package templates

// SlotsB are the values substituted into template B
type SlotsB struct {
	Current string
	GT      string
	WTG     string
	ATLRT   string
	ATNext  string
}

var skeletonB = register(Skeleton{
	Name:          "B",
	Template:      B,
	WithDemand:    textB,
	WithoutDemand: textB,
})

const textB = `WTG({wtg})=true and ((GT({cur}) >= {gt} and AT_less(0, le, {at})) or (EG_{cur}=true and AT_less(0, le, {at_next})))`

// RenderB renders a vehicle stage handing over to a non-anchor LRT stage
func RenderB(s SlotsB) (string, error) {
	return skeletonB.Fill(map[Slot]string{
		SlotCurrent: s.Current,
		SlotGT:      s.GT,
		SlotWTG:     s.WTG,
		SlotAT:      s.ATLRT,
		SlotATNext:  s.ATNext,
	})
}
