package problem

import "fmt"

// ScoreVector holds the fourteen sub-scores of the five-axis competency
// model. Every value is an integer in [0,100].
type ScoreVector struct {
	// Axis 1: cognitive base.
	Axis1Geo int `json:"axis1_geo"`
	Axis1Alg int `json:"axis1_alg"`
	Axis1Ana int `json:"axis1_ana"`

	// Axis 2: strategic metacognition.
	Axis2Opt int `json:"axis2_opt"`
	Axis2Piv int `json:"axis2_piv"`
	Axis2Dia int `json:"axis2_dia"`

	// Axis 3: knowledge state.
	Axis3Con int `json:"axis3_con"`
	Axis3Pro int `json:"axis3_pro"`
	Axis3Ret int `json:"axis3_ret"`

	// Axis 4: execution stamina.
	Axis4Acc int `json:"axis4_acc"`
	Axis4Gri int `json:"axis4_gri"`

	// Axis 5: curriculum progress.
	Axis5Completion          int `json:"axis5_completion"`
	Axis5CurrentTopicMastery int `json:"axis5_currentTopicMastery"`
	Axis5FoundationalMastery int `json:"axis5_foundationalMastery"`
}

func (s *ScoreVector) fields() []*int {
	return []*int{
		&s.Axis1Geo, &s.Axis1Alg, &s.Axis1Ana,
		&s.Axis2Opt, &s.Axis2Piv, &s.Axis2Dia,
		&s.Axis3Con, &s.Axis3Pro, &s.Axis3Ret,
		&s.Axis4Acc, &s.Axis4Gri,
		&s.Axis5Completion, &s.Axis5CurrentTopicMastery, &s.Axis5FoundationalMastery,
	}
}

// Clamp forces every sub-score into [0,100].
func (s *ScoreVector) Clamp() {
	for _, f := range s.fields() {
		if *f < 0 {
			*f = 0
		}
		if *f > 100 {
			*f = 100
		}
	}
}

// Validate reports the first sub-score outside [0,100].
func (s ScoreVector) Validate() error {
	for i, f := range s.fields() {
		if *f < 0 || *f > 100 {
			return fmt.Errorf("score %d out of range: %d", i, *f)
		}
	}
	return nil
}

// AxisAnalysis is the qualitative reading of one axis.
type AxisAnalysis struct {
	Archetype            string `json:"archetype"`
	ArchetypeDescription string `json:"archetypeDescription"`
	Summary              string `json:"summary"`
}

// DiagnosticReport is the AI-written analysis of a submitted level test.
type DiagnosticReport struct {
	Scores                  ScoreVector  `json:"scores"`
	Axis1CognitiveBase      AxisAnalysis `json:"axis1_cognitiveBase"`
	Axis2Metacognition      AxisAnalysis `json:"axis2_metacognition"`
	Axis3KnowledgeState     AxisAnalysis `json:"axis3_knowledgeState"`
	Axis4ExecutionStamina   AxisAnalysis `json:"axis4_executionStamina"`
	Axis5CurriculumProgress AxisAnalysis `json:"axis5_curriculumProgress"`
	OverallSummary          string       `json:"overallSummary"`
}

// Axes returns the five axis analyses in axis order.
func (r DiagnosticReport) Axes() []AxisAnalysis {
	return []AxisAnalysis{
		r.Axis1CognitiveBase,
		r.Axis2Metacognition,
		r.Axis3KnowledgeState,
		r.Axis4ExecutionStamina,
		r.Axis5CurriculumProgress,
	}
}

// ChartGroup is one radar chart of the latent-space view: an axis title and
// the sub-scores plotted on it.
type ChartGroup struct {
	Title  string
	Labels []string
	Scores []float64
}

// ChartGroups splits the score vector into the five per-axis charts. Axis 1
// plots geometry, analysis, algebra in that order.
func (s ScoreVector) ChartGroups() []ChartGroup {
	f := func(v ...int) []float64 {
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out
	}
	return []ChartGroup{
		{"인지적 기저", []string{"기하", "해석", "대수"}, f(s.Axis1Geo, s.Axis1Ana, s.Axis1Alg)},
		{"전략적 메타인지", []string{"최적화", "피벗", "자가 진단"}, f(s.Axis2Opt, s.Axis2Piv, s.Axis2Dia)},
		{"지식의 상태", []string{"개념적 지식", "절차적 지식", "인출 속도"}, f(s.Axis3Con, s.Axis3Pro, s.Axis3Ret)},
		{"실행의 지구력", []string{"연산 정확성", "난이도 내성"}, f(s.Axis4Acc, s.Axis4Gri)},
		{"커리큘럼 진도", []string{"전체 진도", "현재 단원", "선수 개념"}, f(s.Axis5Completion, s.Axis5CurrentTopicMastery, s.Axis5FoundationalMastery)},
	}
}

// AxisCard pairs an axis analysis with its heading and explanation.
type AxisCard struct {
	Title       string
	Description string
	Analysis    AxisAnalysis
}

var axisCardText = [5][2]string{
	{"축 1: 인지 기저", "기하, 대수, 해석 등 수학의 기본기를 평가합니다."},
	{"축 2: 메타인지", "자신의 풀이 과정을 돌아보고 더 나은 전략을 찾는 능력을 평가합니다."},
	{"축 3: 지식 상태", "개념과 공식을 얼마나 잘 이해하고 빠르게 사용하는지를 평가합니다."},
	{"축 4: 실행 지구력", "복잡한 계산을 정확하게 해내고, 어려운 문제를 포기하지 않는 끈기를 평가합니다."},
	{"축 5: 커리큘럼 진도", "교육 과정상의 '지식 지도'를 얼마나 정복했는지, 학습 성취도를 평가합니다."},
}

// Cards returns the five axis cards in axis order.
func (r DiagnosticReport) Cards() []AxisCard {
	axes := r.Axes()
	cards := make([]AxisCard, len(axes))
	for i, a := range axes {
		cards[i] = AxisCard{Title: axisCardText[i][0], Description: axisCardText[i][1], Analysis: a}
	}
	return cards
}
