package problemgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `당신은 한국 교육과정에 정통한 수학 교사이자 평가 문항 출제 전문가입니다.
모든 문항은 5지선다형이며, 정답은 정확히 하나여야 합니다.
문항, 선택지, 해설은 모두 한국어로 작성하세요.`

const renderRules = `[렌더링 및 레이아웃 지침]
- 모든 수식은 KaTeX 형식 ($...$ 또는 $$...$$)을 사용하세요.
- 수식 내부의 연산 기호(+, -, x, ÷) 전후에 적절한 공백을 넣어 가독성을 높이세요.
- 기하, 그래프, 또는 표가 필요한 문제의 경우 'svgImage' 필드에 SVG 코드를 작성하세요.
- SVG는 반드시 viewBox="0 0 W H" 속성을 포함하고, 내부 요소가 캔버스를 벗어나지 않도록 여백(padding)을 충분히 확보하세요.
- SVG 배경은 투명하거나 흰색이어야 하며, 텍스트가 포함될 경우 font-family="Noto Sans KR"을 사용하세요.`

const fieldRules = `[문제 구성]
각 문제는 question, options(5개), correctAnswerIndex(0-4), points(2-4), problemType, analysis, svgImage를 포함한 JSON이어야 합니다.`

// buildUserMessage renders the request for either mode.
func buildUserMessage(p Params) string {
	var b strings.Builder
	switch p.Mode() {
	case ModeCustom:
		c, _ := p.Custom()
		desc := c.StudentDescription
		if strings.TrimSpace(desc) == "" {
			desc = "일반"
		}
		b.WriteString("수학 문제지 생성을 위한 지침:\n")
		fmt.Fprintf(&b, "1. 교육 과정: %s\n", c.Level.Label())
		fmt.Fprintf(&b, "2. 과목/단원: %s / %s\n", c.Subject, strings.Join(c.Topics, ", "))
		fmt.Fprintf(&b, "3. 문제 수: %d\n", c.Count)
		fmt.Fprintf(&b, "4. 학생 수준: %s\n", desc)
	case ModeLevelTest:
		l, _ := p.LevelTest()
		b.WriteString("'5축 역량 모델' 기반 수학 진단 테스트 생성 지침:\n")
		fmt.Fprintf(&b, "1. 대상: %s (%s)\n", l.Level.Label(), strings.Join(l.Subjects, ", "))
		fmt.Fprintf(&b, "2. 문제 수: %d개\n", l.Count)
		b.WriteString("3. 지침: 각 문항은 인지기저, 메타인지, 지식상태, 실행지구력, 커리큘럼 성취도를 다각도로 측정할 수 있도록 구성하세요.\n")
		if d := strings.TrimSpace(l.StudentDescription); d != "" {
			fmt.Fprintf(&b, "4. 학생 배경: %s\n", d)
		}
	}
	b.WriteString("\n")
	b.WriteString(renderRules)
	b.WriteString("\n\n")
	b.WriteString(fieldRules)
	return b.String()
}
