package taxonomy

import "github.com/cognicore/gourmet/pkg/gourmet/review"

// Default returns the built-in Thai restaurant vocabulary and rule table.
// Each call returns a fresh value.
func Default() *KnowledgeBase {
	return &KnowledgeBase{
		Keywords: NewKeywordMap([]Group{
			{Name: GroupPositive, Words: []string{"อร่อย", "ดี", "เยี่ยม", "ชอบ", "แนะนำ", "สด", "สะอาด", "คุ้ม", "เร็ว", "สวย", "เลิศ", "ถูกใจ", "หอม", "นุ่ม"}},
			{Name: GroupNegative, Words: []string{"แย่", "ไม่อร่อย", "ช้า", "แพง", "สกปรก", "เหม็น", "ห่วย", "น้อย", "เค็ม", "จืด", "ดิบ", "รอนาน", "ผิดหวัง", "แมลงสาบ", "แข็ง", "ไม่ได้เรื่อง", "เสียดาย"}},
			{Name: string(review.Service), Words: []string{"พนักงาน", "บริการ", "เสิร์ฟ", "ต้อนรับ", "พูดจา", "คนขาย", "รอ", "คิว", "ช้า", "หน้างอ"}},
			{Name: string(review.Price), Words: []string{"ราคา", "บาท", "แพง", "ถูก", "เช็คบิล", "คุ้ม", "กระเป๋า"}},
			{Name: string(review.Atmosphere), Words: []string{"บรรยากาศ", "ร้าน", "แอร์", "เสียง", "ที่นั่ง", "โต๊ะ", "ห้องน้ำ", "จอดรถ", "ร้อน", "ยุง"}},
			{Name: string(review.Location), Words: []string{"ทางเข้า", "ซอย", "ถนน", "ที่จอด", "mrt", "bts", "หาอยาก", "แผนที่"}},
		}),
		StrongNegative: []string{"ไม่อร่อย", "แย่", "ไม่ดี", "เหม็น", "เสีย"},
		WeakNegative:   []string{"ช้า", "รอนาน", "ที่จอดรถยาก", "แอร์ไม่เย็น"},
		Business:       []string{"อร่อย", "บรรยากาศ", "บริการ", "กาแฟ", "ขนม", "ราคา", "ที่จอดรถ", "รอนาน"},
		Rules: Catalog{
			review.Food: {
				{Suggestion: "Review recipes and check ingredient freshness daily", Severity: "High", Resources: "Medium (Cost of Goods)", Priority: 1},
				{Suggestion: "Conduct blind taste testing with staff before serving", Severity: "Medium", Resources: "Low (Time)", Priority: 2},
				{Suggestion: "Revise menu to remove unpopular/complained items", Severity: "Low", Resources: "Low", Priority: 3},
			},
			review.Service: {
				{Suggestion: "Conduct urgent staff training on hospitality standards", Severity: "High", Resources: "Low (Training Time)", Priority: 1},
				{Suggestion: "Implement a queue management system", Severity: "Medium", Resources: "Medium", Priority: 2},
				{Suggestion: "Hire additional part-time staff for peak hours", Severity: "High", Resources: "High (Salary)", Priority: 3},
			},
			review.Price: {
				{Suggestion: "Analyze portion sizes vs competitors", Severity: "High", Resources: "Low", Priority: 1},
				{Suggestion: "Introduce value-set menus or lunch promotions", Severity: "Medium", Resources: "Medium", Priority: 2},
			},
			review.Atmosphere: {
				{Suggestion: "Deep clean the facility (especially restrooms)", Severity: "High", Resources: "Low", Priority: 1},
				{Suggestion: "Adjust lighting or music volume", Severity: "Low", Resources: "Low", Priority: 2},
				{Suggestion: "Renovate or repair broken furniture", Severity: "Medium", Resources: "High", Priority: 3},
			},
			review.Location: {
				{Suggestion: "Improve signage visibility on the main road", Severity: "Medium", Resources: "Medium", Priority: 1},
				{Suggestion: "Update Google Maps pin and add clear directions online", Severity: "Low", Resources: "Low", Priority: 2},
			},
		},
	}
}
