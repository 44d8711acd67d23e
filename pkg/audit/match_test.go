package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/jnetc/pkg/templates"
)

func TestCompileMatcher_BindsLiterals(t *testing.T) {
	m, err := compileMatcher(`WTG({wtg})=true and (GT({cur}) >= {gt} and AT_less(0, le, {at}))`,
		map[templates.Slot]string{templates.SlotCurrent: "D", templates.SlotGT: "GTcpmin(D)"})
	require.NoError(t, err)

	caps := m.captures(`WTG(D_L39)=true and (GT(D) >= GTcpmin(D) and AT_less(0, le, D_jL39))`)
	require.NotNil(t, caps)
	assert.Equal(t, []string{"D_L39"}, caps[templates.SlotWTG])
	assert.Equal(t, []string{"D_jL39"}, caps[templates.SlotAT])

	assert.Nil(t, m.captures(`WTG(D_L39)=true and (GT(C) >= GTcpmin(D) and AT_less(0, le, D_jL39))`))
}

func TestCompileMatcher_DemandClause(t *testing.T) {
	m, err := compileMatcher(`{demand} and (X)`, nil)
	require.NoError(t, err)

	caps := m.captures(`IsActive(DC) and IsInactive(DB) and (X)`)
	require.NotNil(t, caps)
	assert.Equal(t, []string{"IsActive(DC) and IsInactive(DB)"}, caps[templates.SlotDemand])
}

func TestEGCoOccurrence(t *testing.T) {
	ok := `(PL=0 and EG_B=true) or (PL>0 and ((AT_greater(1, ge, B_Cmin_jL39) and EG_B=true) or Y))`
	assert.Empty(t, egCoOccurrence(ok, "B"))

	noPL := `(PL=0) or (PL>0 and ((AT_greater(1, ge, B_Cmin_jL39) and EG_B=true) or Y))`
	assert.Len(t, egCoOccurrence(noPL, "B"), 1)

	noAT := `(PL=0 and EG_B=true) or (PL>0 and ((AT_greater(1, ge, B_Cmin_jL39)) or Y))`
	assert.Equal(t, []string{"AT_greater check lacks EG_B=true"}, egCoOccurrence(noAT, "B"))
}

func TestEnclosingGroup(t *testing.T) {
	expr := `a or (b and (c and F(1, 2)) or d)`
	pos := len(`a or (b and (c and `)
	assert.Equal(t, `(c and F(1, 2))`, enclosingGroup(expr, pos))
	assert.Equal(t, "plain", enclosingGroup("plain", 2))
}
