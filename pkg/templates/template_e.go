package templates

// SlotsE are the values substituted into template E
type SlotsE struct {
	Current string
	Lig     string
	GT      string
	AT      string
	WTG     string
}

var skeletonE = register(Skeleton{
	Name:          "E",
	Template:      E,
	WithDemand:    textE,
	WithoutDemand: textE,
	ForceSlot:     SlotWTG,
})

const textE = `CloseL({lig}) and LIG({lig})=true and ((GT({cur}) >= {gt} and AT_greater(1, ge, {at})) or WTG({wtg})=false)`

// RenderE renders an LRT stage moving into its clearance stage
func RenderE(s SlotsE) (string, error) {
	return skeletonE.Fill(map[Slot]string{
		SlotCurrent: s.Current,
		SlotLig:     s.Lig,
		SlotGT:      s.GT,
		SlotAT:      s.AT,
		SlotWTG:     s.WTG,
	})
}
