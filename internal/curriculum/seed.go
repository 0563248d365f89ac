package curriculum

// seed follows the 2022 revised national mathematics curriculum. Elementary
// and middle school are organised by grade, high school by course.
var seed = map[Level][]Subject{
	Elementary: {
		{Name: "1학년", Topics: []string{"9까지의 수", "여러 가지 모양", "덧셈과 뺄셈", "비교하기", "50까지의 수", "100까지의 수", "시계 보기와 규칙 찾기"}},
		{Name: "2학년", Topics: []string{"세 자리 수", "여러 가지 도형", "덧셈과 뺄셈", "길이 재기", "분류하기", "곱셈", "네 자리 수", "곱셈구구", "시각과 시간", "표와 그래프"}},
		{Name: "3학년", Topics: []string{"덧셈과 뺄셈", "평면도형", "나눗셈", "곱셈", "길이와 시간", "분수와 소수", "원", "들이와 무게", "그림그래프"}},
		{Name: "4학년", Topics: []string{"큰 수", "각도", "곱셈과 나눗셈", "평면도형의 이동", "막대그래프", "규칙 찾기", "분수의 덧셈과 뺄셈", "삼각형", "소수의 덧셈과 뺄셈", "사각형", "꺾은선그래프", "다각형"}},
		{Name: "5학년", Topics: []string{"자연수의 혼합 계산", "약수와 배수", "규칙과 대응", "약분과 통분", "분수의 덧셈과 뺄셈", "다각형의 둘레와 넓이", "수의 범위와 어림하기", "분수의 곱셈", "합동과 대칭", "소수의 곱셈", "직육면체", "평균과 가능성"}},
		{Name: "6학년", Topics: []string{"분수의 나눗셈", "각기둥과 각뿔", "소수의 나눗셈", "비와 비율", "여러 가지 그래프", "직육면체의 부피와 겉넓이", "공간과 입체", "비례식과 비례배분", "원의 넓이", "원기둥, 원뿔, 구"}},
	},
	Middle: {
		{Name: "1학년", Topics: []string{"소인수분해", "정수와 유리수", "문자의 사용과 식", "일차방정식", "좌표평면과 그래프", "기본 도형", "작도와 합동", "평면도형의 성질", "입체도형의 성질", "자료의 정리와 해석"}},
		{Name: "2학년", Topics: []string{"유리수와 순환소수", "식의 계산", "일차부등식", "연립일차방정식", "일차함수와 그래프", "일차함수와 일차방정식의 관계", "삼각형의 성질", "사각형의 성질", "도형의 닮음", "피타고라스 정리", "확률"}},
		{Name: "3학년", Topics: []string{"제곱근과 실수", "근호를 포함한 식의 계산", "다항식의 곱셈과 인수분해", "이차방정식", "이차함수와 그래프", "삼각비", "원의 성질", "대푯값과 산포도", "상관관계"}},
	},
	High: {
		{Name: "공통수학1", Topics: []string{"다항식의 연산", "항등식과 나머지정리", "인수분해", "복소수와 이차방정식", "이차방정식과 이차함수", "여러 가지 방정식과 부등식", "경우의 수", "행렬과 그 연산"}},
		{Name: "공통수학2", Topics: []string{"평면좌표", "직선의 방정식", "원의 방정식", "도형의 이동", "집합", "명제", "함수", "유리함수와 무리함수"}},
		{Name: "대수", Topics: []string{"지수와 로그", "지수함수와 로그함수", "삼각함수", "사인법칙과 코사인법칙", "등차수열과 등비수열", "수열의 합", "수학적 귀납법"}},
		{Name: "미적분Ⅰ", Topics: []string{"함수의 극한", "함수의 연속", "미분계수와 도함수", "도함수의 활용", "부정적분", "정적분", "정적분의 활용"}},
		{Name: "확률과 통계", Topics: []string{"순열과 조합", "이항정리", "확률의 뜻과 활용", "조건부확률", "이산확률변수", "이항분포", "정규분포", "통계적 추정"}},
		{Name: "미적분Ⅱ", Topics: []string{"수열의 극한", "급수", "여러 가지 함수의 미분", "여러 가지 미분법", "도함수의 활용", "여러 가지 적분법", "정적분의 활용"}},
		{Name: "기하", Topics: []string{"이차곡선", "이차곡선과 직선", "공간좌표", "벡터의 연산", "벡터의 내적", "도형의 방정식"}},
	},
}
