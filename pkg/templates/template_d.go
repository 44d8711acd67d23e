package templates

// SlotsD are the values substituted into template D
type SlotsD struct {
	Target string
	Demand string
	AT     string
	WTG    string
}

var skeletonD = register(Skeleton{
	Name:          "D",
	Template:      D,
	WithDemand:    `CloseL({to}) and LIG({to})=false and {demand} and (AT_greater(1, ge, {at}) or WTG({wtg})=false)`,
	WithoutDemand: `CloseL({to}) and LIG({to})=false and (AT_greater(1, ge, {at}) or WTG({wtg})=false)`,
	ForceSlot:     SlotWTG,
})

// RenderD renders an LRT stage releasing to a vehicle stage
func RenderD(s SlotsD) (string, error) {
	return skeletonD.Fill(map[Slot]string{
		SlotTarget: s.Target,
		SlotDemand: s.Demand,
		SlotAT:     s.AT,
		SlotWTG:    s.WTG,
	})
}
