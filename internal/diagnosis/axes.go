package diagnosis

// SubScore is one of the fourteen scored dimensions of the five-axis model.
type SubScore struct {
	Key         string // JSON key in the report's scores object
	Axis        int    // 1-5
	Name        string
	Description string
}

// SubScores lists the model's dimensions in axis order. The prompt explains
// each one so the scores are comparable across reports.
var SubScores = []SubScore{
	{"axis1_geo", 1, "기하", "도형과 공간을 시각적으로 파악하는 능력"},
	{"axis1_alg", 1, "대수", "기호와 식을 조작하고 구조를 파악하는 능력"},
	{"axis1_ana", 1, "해석", "함수, 변화, 그래프를 해석하는 능력"},
	{"axis2_opt", 2, "최적화", "가장 효율적인 풀이 경로를 고르는 능력"},
	{"axis2_piv", 2, "피벗", "막혔을 때 다른 전략으로 바꾸는 유연성"},
	{"axis2_dia", 2, "자가 진단", "자신의 오류를 스스로 발견하는 능력"},
	{"axis3_con", 3, "개념적 지식", "정의와 원리에 대한 이해"},
	{"axis3_pro", 3, "절차적 지식", "공식과 계산 절차의 숙련도"},
	{"axis3_ret", 3, "인출 속도", "배운 내용을 빠르게 떠올려 쓰는 능력"},
	{"axis4_acc", 4, "연산 정확성", "계산 실수 없이 끝까지 풀어내는 정확도"},
	{"axis4_gri", 4, "난이도 내성", "어려운 문제를 포기하지 않는 지구력"},
	{"axis5_completion", 5, "전체 진도", "현재 학년 교육과정의 이수 정도"},
	{"axis5_currentTopicMastery", 5, "현재 단원", "지금 배우는 단원의 성취 수준"},
	{"axis5_foundationalMastery", 5, "선수 개념", "선수 학습 단원의 성취 수준"},
}

// axisNames are the five axes in order.
var axisNames = [5]string{"인지적 기저", "전략적 메타인지", "지식의 상태", "실행의 지구력", "커리큘럼 진도"}
