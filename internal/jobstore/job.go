package jobstore

// JobPosting is one entry of the job board. The ID is caller-assigned and stable;
// the repository does not enforce uniqueness on append (callers dedupe upstream).
type JobPosting struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Target      string `json:"target"`
	UpdatedAt   string `json:"updated_at"`
	Link        string `json:"link"`
	Description string `json:"description,omitempty"`
}

// defaultJobs seeds a fresh store so the tool is usable before any import.
func defaultJobs() []JobPosting {
	return []JobPosting{
		{
			ID:          "1",
			Company:     "字节跳动 (ByteDance)",
			Location:    "北京/上海",
			Type:        "校招",
			Target:      "2024/2025届毕业生",
			UpdatedAt:   "2024-03-15",
			Link:        "https://jobs.bytedance.com",
			Description: "国际化电商运营管培生，负责TikTok Shop内容生态建设，需要流利英语及数据驱动思维。",
		},
		{
			ID:          "2",
			Company:     "腾讯 (Tencent)",
			Location:    "深圳",
			Type:        "实习",
			Target:      "在校生",
			UpdatedAt:   "2024-03-14",
			Link:        "https://join.qq.com",
			Description: "微信事业群产品策划实习生，协助各行业小程序解决方案落地，要求逻辑严密，有Axure经验。",
		},
		{
			ID:          "3",
			Company:     "中金公司 (CICC)",
			Location:    "北京/香港",
			Type:        "社招",
			Target:      "1-3年经验",
			UpdatedAt:   "2024-03-10",
			Link:        "https://cicc.com",
			Description: "投资银行部分析师 (Analyst)，负责行业研究与财务模型搭建，CPA/CFA优先。",
		},
		{
			ID:          "4",
			Company:     "宝洁 (P&G)",
			Location:    "广州",
			Type:        "校招",
			Target:      "应届生",
			UpdatedAt:   "2024-03-12",
			Link:        "https://pg.com",
			Description: "品牌管理部 (Brand Management) 管培生，负责品牌Go-to-market策略，全英文面试。",
		},
	}
}
