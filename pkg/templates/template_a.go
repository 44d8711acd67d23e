package templates

// SlotsA are the values substituted into template A
type SlotsA struct {
	Current string
	GT      string
	Demand  string
	// AT is the arrival path to the target, shared by both AT branches
	AT     string
	Bypass string
	Force  string
}

func (s SlotsA) values() map[Slot]string {
	return map[Slot]string{
		SlotCurrent: s.Current,
		SlotGT:      s.GT,
		SlotDemand:  s.Demand,
		SlotAT:      s.AT,
		SlotBypass:  s.Bypass,
		SlotForce:   s.Force,
	}
}

const coreA1 = `(PL=0 and EG_{cur}=true) or (PL>0 and GT({cur}) >= {gt} and ((AT_greater(1, ge, {at}) and EG_{cur}=true) or (AT_less(1, le, {at}) and WTG({bypass})=false))) or WTG({force})=false`

var skeletonA1 = register(Skeleton{
	Name:          "A1",
	Template:      A,
	Variant:       A1,
	WithDemand:    `{demand} and (` + coreA1 + `)`,
	WithoutDemand: coreA1,
	EGGate:        true,
	ForceSlot:     SlotForce,
})

// RenderA1 renders a vehicle-to-vehicle move whose target can call an LRT
// stage directly.
func RenderA1(s SlotsA) (string, error) {
	return skeletonA1.Fill(s.values())
}

const coreA2 = `(PL=0 and EG_{cur}=true) or (PL>0 and GT({cur}) >= {gt} and ((EG_{cur}=true and AT_greater(1, gt, {at})) or (AT_less(1, le, {at}) and WTG({bypass})=false))) or WTG({force})=false`

var skeletonA2 = register(Skeleton{
	Name:          "A2",
	Template:      A,
	Variant:       A2,
	WithDemand:    `{demand} and (` + coreA2 + `)`,
	WithoutDemand: coreA2,
	EGGate:        true,
	ForceSlot:     SlotForce,
})

// RenderA2 renders a vehicle-to-vehicle move whose target has no direct LRT
// successor; the arrival path names a threatening LRT instead.
func RenderA2(s SlotsA) (string, error) {
	return skeletonA2.Fill(s.values())
}
