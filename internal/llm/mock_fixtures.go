package llm

import "encoding/json"

// Schema names the offline provider knows how to answer.
const (
	fixtureProblemSet = "problem-set"
	fixtureReport     = "diagnostic-report"
)

// sampleProblemSet is a five-problem middle school set in the shape the
// problem-set schema requires.
var sampleProblemSet = json.RawMessage(`{
  "problems": [
    {
      "question": "이차방정식 $x^2 - 5x + 6 = 0$의 두 근의 합은?",
      "options": ["$1$", "$5$", "$6$", "$-5$", "$-6$"],
      "correctAnswerIndex": 1,
      "points": 2,
      "problemType": "개념 이해",
      "analysis": "근과 계수의 관계에서 두 근의 합은 $-\\frac{b}{a} = 5$이다."
    },
    {
      "question": "$\\sqrt{12} \\times \\sqrt{3}$의 값은?",
      "options": ["$3$", "$4$", "$6$", "$9$", "$12$"],
      "correctAnswerIndex": 2,
      "points": 2,
      "problemType": "계산 능력",
      "analysis": "$\\sqrt{12} \\times \\sqrt{3} = \\sqrt{36} = 6$이다."
    },
    {
      "question": "일차함수 $y = 2x - 3$의 그래프의 $y$절편은?",
      "options": ["$-3$", "$-2$", "$\\frac{3}{2}$", "$2$", "$3$"],
      "correctAnswerIndex": 0,
      "points": 3,
      "problemType": "개념 이해",
      "analysis": "$x = 0$을 대입하면 $y = -3$이다."
    },
    {
      "question": "직각삼각형의 두 변의 길이가 $3$, $4$이고 빗변이 아닐 때, 빗변의 길이는?",
      "options": ["$5$", "$6$", "$7$", "$\\sqrt{7}$", "$12$"],
      "correctAnswerIndex": 0,
      "points": 3,
      "problemType": "응용 문제",
      "analysis": "피타고라스 정리에 의해 빗변은 $\\sqrt{3^2 + 4^2} = 5$이다."
    },
    {
      "question": "연속하는 두 자연수의 곱이 $56$일 때, 두 수의 합은?",
      "options": ["$13$", "$14$", "$15$", "$16$", "$17$"],
      "correctAnswerIndex": 2,
      "points": 4,
      "problemType": "응용 문제",
      "analysis": "$n(n+1) = 56$에서 $n = 7$이므로 두 수의 합은 $7 + 8 = 15$이다."
    }
  ]
}`)

// sampleReport is a complete diagnostic report with every sub-score set.
var sampleReport = json.RawMessage(`{
  "scores": {
    "axis1_geo": 62, "axis1_alg": 78, "axis1_ana": 55,
    "axis2_opt": 60, "axis2_piv": 48, "axis2_dia": 52,
    "axis3_con": 70, "axis3_pro": 81, "axis3_ret": 66,
    "axis4_acc": 58, "axis4_gri": 63,
    "axis5_completion": 72, "axis5_currentTopicMastery": 64, "axis5_foundationalMastery": 75
  },
  "axis1_cognitiveBase": {
    "archetype": "대수형 사고자",
    "archetypeDescription": "식을 세우고 변형하는 데 강하지만 도형과 그래프 해석은 상대적으로 느립니다.",
    "summary": "대수 문항은 안정적으로 해결했으나 그래프 문항에서 시간이 걸렸습니다."
  },
  "axis2_metacognition": {
    "archetype": "직진형 풀이자",
    "archetypeDescription": "처음 고른 방법을 끝까지 밀고 나가는 편입니다.",
    "summary": "막혔을 때 전략을 바꾸기보다 같은 계산을 반복하는 경향이 보입니다."
  },
  "axis3_knowledgeState": {
    "archetype": "절차 숙련형",
    "archetypeDescription": "공식 적용은 빠르지만 정의에 대한 설명은 약합니다.",
    "summary": "근과 계수의 관계, 제곱근 계산은 정확했습니다."
  },
  "axis4_executionStamina": {
    "archetype": "초반 집중형",
    "archetypeDescription": "앞 문항의 정확도가 높고 뒤로 갈수록 실수가 늘어납니다.",
    "summary": "마지막 응용 문제에서 부호 실수가 있었습니다."
  },
  "axis5_curriculumProgress": {
    "archetype": "정상 진도",
    "archetypeDescription": "현재 학년 진도를 무리 없이 따라가고 있습니다.",
    "summary": "선수 개념은 탄탄하며 현재 단원의 응용이 다음 목표입니다."
  },
  "overallSummary": "계산과 대수 조작은 강점이며, 그래프 해석과 풀이 전략 전환을 연습하면 고난도 문항 대응력이 올라갈 것입니다."
}`)

// offlineFixtures are the payloads NewOfflineProvider serves by schema name.
func offlineFixtures() map[string]json.RawMessage {
	return map[string]json.RawMessage{
		fixtureProblemSet: sampleProblemSet,
		fixtureReport:     sampleReport,
	}
}
