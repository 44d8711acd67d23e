package templates

// SlotsC are the values substituted into template C
type SlotsC struct {
	Current string
	GT      string
	WTG     string
	AT      string
}

const textC = `WTG({wtg})=true and (GT({cur}) >= {gt} and AT_less(0, le, {at}))`

var skeletonC = register(Skeleton{
	Name:          "C",
	Template:      C,
	WithDemand:    textC,
	WithoutDemand: textC,
})

// RenderC renders a vehicle stage handing over to the LRT anchor
func RenderC(s SlotsC) (string, error) {
	return skeletonC.Fill(map[Slot]string{
		SlotCurrent: s.Current,
		SlotGT:      s.GT,
		SlotWTG:     s.WTG,
		SlotAT:      s.AT,
	})
}
