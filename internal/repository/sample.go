package repository

import "github.com/ERIC-757875/TutorHub/internal/model"

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

// SampleRecords 返回用于演示的初始数据
func SampleRecords(v *model.SchemaVariant) []model.TutorRecord {
	if v == model.VariantProfile {
		return []model.TutorRecord{
			{
				Name: "张伟", Gender: "男", Subjects: "初中数学、高中物理", University: "北京大学",
				Major: "数学与应用数学", Grade: "大三", Hometown: "江苏南京", Age: intPtr(21),
				Advantage: "全国高中数学联赛一等奖，讲题思路清晰", Experience: "带过 3 名初三学生，中考数学平均提分 25 分",
			},
			{
				Name: "李娜", Gender: "女", Subjects: "英语口语、雅思", University: "复旦大学",
				Major: "英语语言文学", Grade: "研一", Hometown: "上海", Age: intPtr(23),
				Advantage: "雅思 8.5，口语 8 分", Experience: "在新东方兼职一年，擅长口语陪练",
			},
			{
				Name: "王强", Gender: "男", Subjects: "高中物理、高中化学", University: "清华大学",
				Major: "工程物理", Grade: "大二", Hometown: "湖北武汉", Age: intPtr(20),
				Advantage: "物理竞赛省一，擅长力学分析", Experience: "暑期辅导高一学生两个月",
			},
			{
				Name: "Emily", Gender: "女", Subjects: "托福、SAT", University: "UC Berkeley",
				Major: "Economics", Grade: "大四", Hometown: "广东深圳", Age: intPtr(22),
				Advantage: "托福 115，美本申请经验丰富", Experience: "指导 5 名学生完成美本申请",
			},
		}
	}

	return []model.TutorRecord{
		{Name: "张伟", Subjects: "数学", University: "北京大学", Gender: "男", Price: floatPtr(200), Tags: "奥数金牌", Description: "拥有5年奥数辅导经验..."},
		{Name: "李娜", Subjects: "英语", University: "复旦大学", Gender: "女", Price: floatPtr(250), Tags: "专攻口语", Description: "曾在新东方任教..."},
		{Name: "王强", Subjects: "物理", University: "清华大学", Gender: "男", Price: floatPtr(300), Tags: "物理竞赛", Description: "擅长力学分析..."},
		{Name: "Emily", Subjects: "雅思", University: "UC Berkeley", Gender: "女", Price: floatPtr(400), Tags: "托福115", Description: "美本申请专家..."},
	}
}
