package audit_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/jnetc/pkg/audit"
	"github.com/dd0wney/jnetc/pkg/demand"
	"github.com/dd0wney/jnetc/pkg/paths"
	"github.com/dd0wney/jnetc/pkg/result"
	"github.com/dd0wney/jnetc/pkg/templates"
	"github.com/dd0wney/jnetc/pkg/topology/topologytest"
)

func newAuditor(t *testing.T) *audit.Auditor {
	t.Helper()
	g := topologytest.Standard()
	return audit.New(paths.NewResolver(g), demand.NewBuilder(g))
}

func mustRender(t *testing.T) func(string, error) string {
	return func(expr string, err error) string {
		t.Helper()
		require.NoError(t, err)
		return expr
	}
}

func renderA(t *testing.T, v templates.Variant, s templates.SlotsA) string {
	t.Helper()
	if v == templates.A1 {
		return mustRender(t)(templates.RenderA1(s))
	}
	return mustRender(t)(templates.RenderA2(s))
}

func rowA0B(t *testing.T, s templates.SlotsA) result.Row {
	return result.Row{Ordinal: 2, From: "A0", To: "B", Template: templates.A, Variant: templates.A1,
		Expression: renderA(t, templates.A1, s)}
}

func cleanA0B() templates.SlotsA {
	return templates.SlotsA{
		Current: "A0", GT: "GTmin_A0", Demand: "IsActive(DB)",
		AT: "A0_Bcpn_jL30", Bypass: "A0_L30_DQ_Cmin_Dcpn_A0", Force: "A0_Bcpn_Cmin_Dcpn_A0",
	}
}

// standardRows are the rows a correct compile of the standard junction emits
func standardRows(t *testing.T) []result.Row {
	t.Helper()
	rows := []result.Row{
		rowA0B(t, cleanA0B()),
		{Ordinal: 3, From: "B", To: "C", Template: templates.A, Variant: templates.A2,
			Expression: renderA(t, templates.A2, templates.SlotsA{
				Current: "B", GT: "GTcpmin(B)", Demand: "IsActive(DC)",
				AT: "B_Cmin_jL39", Bypass: "B_L30_DQ_Cmin_Dcpn_A0", Force: "B_Cmin_Dcpn_A0"})},
		{Ordinal: 4, From: "C", To: "D", Template: templates.A, Variant: templates.A1,
			Expression: renderA(t, templates.A1, templates.SlotsA{
				Current: "C", GT: "GTmin_C", Demand: "IsActive(DD)",
				AT: "C_Dcpn_jL39", Bypass: "C_L39", Force: "C_Dcpn_A0"})},
		{Ordinal: 5, From: "D", To: "A0", Template: templates.A, Variant: templates.A2,
			Expression: renderA(t, templates.A2, templates.SlotsA{
				Current: "D", GT: "GTcpmin(D)",
				AT: "D_A0min_jL30", Bypass: "D_L39", Force: "D_A0"})},
		{Ordinal: 6, From: "B", To: "L30", Template: templates.B,
			Expression: mustRender(t)(templates.RenderB(templates.SlotsB{
				Current: "B", GT: "GTcpmin(B)", WTG: "B_L30_DQ_Cmin_Dcpn_A0",
				ATLRT: "B_jL30", ATNext: "B_Cmin_jL39"}))},
		{Ordinal: 7, From: "D", To: "L39", Template: templates.C,
			Expression: mustRender(t)(templates.RenderC(templates.SlotsC{
				Current: "D", GT: "GTcpmin(D)", WTG: "D_L39", AT: "D_jL39"}))},
		{Ordinal: 8, From: "L30", To: "C", Template: templates.D,
			Expression: mustRender(t)(templates.RenderD(templates.SlotsD{
				Target: "C", Demand: "IsActive(DC) and IsInactive(DB)",
				AT: "L30_Cmin_jL39", WTG: "L30_DQ_Cmin_Dcpn_A0"}))},
		{Ordinal: 9, From: "L30", To: "A31", Template: templates.E,
			Expression: mustRender(t)(templates.RenderE(templates.SlotsE{
				Current: "L30", Lig: "A31", GT: "GTmin_L30",
				AT: "L30_A31_Dcpn_jL39", WTG: "L30_DQ_A31_Dcpn_A0"}))},
		{Ordinal: 10, From: "A31", To: "D", Template: templates.F,
			Expression: mustRender(t)(templates.RenderF(templates.SlotsF{Demand: "IsActive(DD)"}))},
		{Ordinal: 11, From: "L30", To: "L39", Template: templates.G,
			Expression: mustRender(t)(templates.RenderG(templates.SlotsG{
				Current: "L30", WTG: "L30_L39", ATLRT: "L30_jL39", ATNext: "L30_Cmin_jL39"}))},
		{Ordinal: 12, From: "L39", To: "A0", Template: templates.D,
			Expression: mustRender(t)(templates.RenderD(templates.SlotsD{
				Target: "A0", AT: "L39_A0min_jL30", WTG: "L39_DQ_A0"}))},
	}
	return rows
}

func codes(row result.Row) []string {
	out := make([]string, 0, len(row.Diagnostics))
	for _, d := range row.Diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func TestAudit_CleanRowsPass(t *testing.T) {
	a := newAuditor(t)
	for _, row := range standardRows(t) {
		t.Run(row.From+"->"+row.To, func(t *testing.T) {
			before := row.Expression
			a.Audit(&row)
			assert.Empty(t, row.Diagnostics)
			assert.Equal(t, before, row.Expression)
		})
	}
}

func TestAudit_Corrections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*templates.SlotsA)
		code    string
		wantAT  string
		wantBy  string
		wantDem string
	}{
		{
			name:   "missing suffix",
			mutate: func(s *templates.SlotsA) { s.AT = "A0_B_jL30" },
			code:   result.CodeSuffixCorrected,
		},
		{
			name:   "suffix on final token",
			mutate: func(s *templates.SlotsA) { s.Bypass = "A0_L30_DQ_Cmin_Dcpn_A0min" },
			code:   result.CodeSuffixCorrected,
		},
		{
			name:   "missing clearance marker",
			mutate: func(s *templates.SlotsA) { s.Bypass = "A0_L30_Cmin_Dcpn_A0" },
			code:   result.CodeClearanceFixed,
		},
		{
			name:   "runs past vehicle anchor",
			mutate: func(s *templates.SlotsA) { s.Force = "A0_Bcpn_Cmin_Dcpn_A0min_Bcpn" },
			code:   result.CodeAnchorStopFixed,
		},
		{
			name:   "wrong demand",
			mutate: func(s *templates.SlotsA) { s.Demand = "IsActive(DC)" },
			code:   result.CodeDemandCorrected,
		},
		{
			name:   "missing demand",
			mutate: func(s *templates.SlotsA) { s.Demand = "" },
			code:   result.CodeDemandCorrected,
		},
	}

	a := newAuditor(t)
	want := rowA0B(t, cleanA0B()).Expression
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := cleanA0B()
			tt.mutate(&s)
			row := rowA0B(t, s)
			require.NotEqual(t, want, row.Expression)

			a.Audit(&row)
			require.Len(t, row.Diagnostics, 1, "diagnostics: %v", row.Diagnostics)
			assert.Equal(t, tt.code, row.Diagnostics[0].Code)
			assert.True(t, row.Diagnostics[0].Corrected)
			assert.Equal(t, want, row.Expression)
		})
	}
}

func TestAudit_CorrectionIsStable(t *testing.T) {
	a := newAuditor(t)
	s := cleanA0B()
	s.AT = "A0_B_jL30"
	s.Bypass = "A0_L30_Cmin_Dcpn_A0"
	row := rowA0B(t, s)

	a.Audit(&row)
	assert.ElementsMatch(t, []string{result.CodeSuffixCorrected, result.CodeClearanceFixed}, codes(row))

	again := result.Row{Ordinal: row.Ordinal, From: row.From, To: row.To,
		Template: row.Template, Variant: row.Variant, Expression: row.Expression}
	a.Audit(&again)
	assert.Empty(t, again.Diagnostics)
	assert.Equal(t, row.Expression, again.Expression)
}

func TestAudit_ConfiguredAnchorStopOnLRTAnchor(t *testing.T) {
	a := newAuditor(t)
	row := standardRows(t)[2] // C->D
	row.Expression = strings.Replace(row.Expression, "WTG(C_L39)", "WTG(C_L39_DQ_A0)", 1)

	a.Audit(&row)
	require.Equal(t, []string{result.CodeAnchorStopFixed}, codes(row))
	assert.Contains(t, row.Expression, "WTG(C_L39)=false")
}

func TestAudit_WaitEndingOnNonAnchorLRT(t *testing.T) {
	a := newAuditor(t)
	row := standardRows(t)[4] // B->L30
	row.Expression = strings.Replace(row.Expression, "WTG(B_L30_DQ_Cmin_Dcpn_A0)", "WTG(B_L30)", 1)

	a.Audit(&row)
	require.Equal(t, []string{result.CodeAnchorStopFixed}, codes(row))
	assert.True(t, row.Diagnostics[0].Corrected)
	assert.Contains(t, row.Expression, "WTG(B_L30_DQ_A0)=true")
}

func TestAudit_TemplateFDemand(t *testing.T) {
	a := newAuditor(t)
	row := standardRows(t)[8] // A31->D
	row.Expression = templates.NoLogic

	a.Audit(&row)
	require.Equal(t, []string{result.CodeDemandCorrected}, codes(row))
	assert.Equal(t, "IsActive(DD)", row.Expression)
}

func TestAudit_TemplateDDemandGate(t *testing.T) {
	a := newAuditor(t)
	row := standardRows(t)[6] // L30->C
	row.Expression = strings.Replace(row.Expression, " and IsInactive(DB)", "", 1)

	a.Audit(&row)
	require.Equal(t, []string{result.CodeDemandCorrected}, codes(row))
	assert.Equal(t, standardRows(t)[6].Expression, row.Expression)
}

func TestAudit_Flags(t *testing.T) {
	a := newAuditor(t)

	t.Run("split arrival", func(t *testing.T) {
		row := rowA0B(t, cleanA0B())
		i := strings.LastIndex(row.Expression, "A0_Bcpn_jL30")
		row.Expression = row.Expression[:i] + "A0_Bcpn_jL39" + row.Expression[i+len("A0_Bcpn_jL30"):]
		before := row.Expression

		a.Audit(&row)
		assert.Equal(t, []string{result.CodeSplitLRT}, codes(row))
		assert.False(t, row.Diagnostics[0].Corrected)
		assert.Equal(t, before, row.Expression)
	})

	t.Run("wrong nearest LRT", func(t *testing.T) {
		s := cleanA0B()
		s.AT = "A0_Bcpn_jL39"
		row := rowA0B(t, s)

		a.Audit(&row)
		assert.Equal(t, []string{result.CodeSplitLRT}, codes(row))
	})

	t.Run("undeclared force move", func(t *testing.T) {
		s := cleanA0B()
		s.Force = "A0_Bcpn_Dcpn_A0"
		row := rowA0B(t, s)

		a.Audit(&row)
		require.Equal(t, []string{result.CodeForceUndeclared}, codes(row))
		assert.Contains(t, row.Diagnostics[0].Message, "B->D")
	})

	t.Run("unknown token", func(t *testing.T) {
		s := cleanA0B()
		s.Bypass = "A0_Q9_A0"
		row := rowA0B(t, s)

		a.Audit(&row)
		assert.Equal(t, []string{result.CodeUnknownToken}, codes(row))
	})

	t.Run("structure mismatch", func(t *testing.T) {
		row := rowA0B(t, cleanA0B())
		row.Expression = strings.Replace(row.Expression, "PL>0", "PL>1", 1)

		a.Audit(&row)
		assert.Equal(t, []string{result.CodeStructureMismatch}, codes(row))
	})

	t.Run("wrong GT function", func(t *testing.T) {
		row := standardRows(t)[1] // B->C
		row.Expression = strings.Replace(row.Expression, "GTcpmin(B)", "GTmin_B", 1)

		a.Audit(&row)
		assert.Equal(t, []string{result.CodeStructureMismatch}, codes(row))
	})
}

func TestAudit_SkipsErrorRows(t *testing.T) {
	a := newAuditor(t)
	row := result.Row{Ordinal: 2, From: "A0", To: "Z",
		Err: &result.RowError{Kind: result.ClassificationFailed, Message: "unknown stage Z"}}

	a.Audit(&row)
	assert.Empty(t, row.Diagnostics)
	assert.Empty(t, row.Expression)
}
