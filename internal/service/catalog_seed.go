package service

import "artcase-backend/internal/model"

type catalogueEntry struct {
	caseType string
	model    string
	price    string
	url      string
}

// 内置目录：橡胶壳对应 tough 目录，透明壳对应 normal 目录
var phoneCatalogue = []catalogueEntry{
	{model.CaseTypeRubber, "iphone 14", "30.00", "/tough/iPhone_14_t.png"},
	{model.CaseTypeRubber, "iphone 14 plus", "30.00", "/tough/iPhone_14_Plus_t.png"},
	{model.CaseTypeRubber, "iphone 14 pro", "30.00", "/tough/iPhone_14_Pro_t.png"},
	{model.CaseTypeRubber, "iphone 14 pro max", "30.00", "/tough/iPhone_14_Pro_Max_t.png"},
	{model.CaseTypeRubber, "iphone 15", "30.00", "/tough/iPhone_15_t.png"},
	{model.CaseTypeRubber, "iphone 15 plus", "30.00", "/tough/iPhone_15_Plus_t.png"},
	{model.CaseTypeRubber, "iphone 15 pro", "30.00", "/tough/iPhone_15_Pro_t.png"},
	{model.CaseTypeRubber, "iphone 15 pro max", "30.00", "/tough/iPhone_15_Pro_Max_t.png"},
	{model.CaseTypeRubber, "iphone 16 pro", "30.00", "/tough/iPhone_16_Pro_t.png"},
	{model.CaseTypeRubber, "iphone 16 pro max", "30.00", "/tough/iPhone_16_Pro_Max_t.png"},
	{model.CaseTypeClear, "iphone se", "25.00", "/normal/iphone_se.png"},
	{model.CaseTypeClear, "iphone 7", "25.00", "/normal/iphone_7_8.png"},
	{model.CaseTypeClear, "iphone 8", "25.00", "/normal/iphone_7_8.png"},
	{model.CaseTypeClear, "iphone 12", "25.00", "/normal/iphone_12.png"},
	{model.CaseTypeClear, "iphone 12 mini", "25.00", "/normal/iphone_12_mini.png"},
	{model.CaseTypeClear, "iphone 12 pro", "25.00", "/normal/iphone_12_pro.png"},
	{model.CaseTypeClear, "iphone 12 pro max", "25.00", "/normal/iphone_12_pro_max.png"},
	{model.CaseTypeClear, "iphone 13", "25.00", "/normal/iphone_13.png"},
	{model.CaseTypeClear, "iphone 13 mini", "25.00", "/normal/iphone_13_mini.png"},
	{model.CaseTypeClear, "iphone 13 pro", "25.00", "/normal/iphone_13_pro.png"},
	{model.CaseTypeClear, "iphone 13 pro max", "25.00", "/normal/iphone_13_pro_max.png"},
	{model.CaseTypeClear, "iphone 14", "25.00", "/normal/iphone_14.png"},
	{model.CaseTypeClear, "iphone 14 plus", "25.00", "/normal/iphone_14_plus.png"},
	{model.CaseTypeClear, "iphone 14 pro", "25.00", "/normal/iphone_14_pro.png"},
	{model.CaseTypeClear, "iphone 14 pro max", "25.00", "/normal/iphone_14_pro_max.png"},
	{model.CaseTypeClear, "samsung a34", "25.00", "/normal/samsung_a34.jpg"},
	{model.CaseTypeClear, "samsung a54", "25.00", "/normal/samsung_a54.png"},
	{model.CaseTypeClear, "samsung galaxy note 8", "25.00", "/normal/samsung_galaxy_note_8.png"},
	{model.CaseTypeClear, "samsung galaxy note 12", "25.00", "/normal/samsung_galaxy_note_12.png"},
	{model.CaseTypeClear, "samsung galaxy s23", "25.00", "/normal/samsung_galaxy_s23.webp"},
	{model.CaseTypeClear, "oppo a60", "25.00", "/normal/oppo_a60.jpg"},
	{model.CaseTypeClear, "oppo reno 4z", "25.00", "/normal/oppo_reno_4z.avif"},
	{model.CaseTypeClear, "oppo reno 5 lite", "25.00", "/normal/oppo_reno_5_lite.avif"},
	{model.CaseTypeClear, "oppo reno 6", "25.00", "/normal/oppo_reno_6.jpg"},
	{model.CaseTypeClear, "oppo reno 12", "25.00", "/normal/oppo_reno_12.jpg"},
	{model.CaseTypeClear, "redmi 13 pro", "25.00", "/normal/redmi_13_pro.webp"},
	{model.CaseTypeClear, "redmi a3", "25.00", "/normal/redmi_a3.avif"},
	{model.CaseTypeClear, "redmi note 12", "25.00", "/normal/redmi_note_12.jpg"},
	{model.CaseTypeClear, "redmi note 11 pro", "25.00", "/normal/redmi_note_11_pro.avif"},
	{model.CaseTypeClear, "redmi note 10", "25.00", "/normal/redmi_note_10.jpg"},
}
