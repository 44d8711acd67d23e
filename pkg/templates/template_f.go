package templates

// SlotsF are the values substituted into template F
type SlotsF struct {
	Demand string
}

var skeletonF = register(Skeleton{
	Name:          "F",
	Template:      F,
	WithDemand:    `{demand}`,
	WithoutDemand: NoLogic,
})

// RenderF renders a clearance stage returning to traffic. Without a demand
// there is no operative condition.
func RenderF(s SlotsF) (string, error) {
	return skeletonF.Fill(map[Slot]string{SlotDemand: s.Demand})
}
