package kie

// CatalogueVersion is the catalogue format version this package reads.
const CatalogueVersion = 1

// DefaultCatalogue returns the field table of the vehicle conformity
// certificate (机动车整车出厂合格证). Order matters only for debug output.
func DefaultCatalogue() Catalogue {
	return Catalogue{
		Version: CatalogueVersion,
		Name:    "vehicle-conformity-certificate",
		Fields: []FieldSpec{
			{Patterns: []string{`合格证编号`}, ValueKeys: []string{"vc_no"}},
			{Patterns: []string{`发证日期`}, ValueKeys: []string{"vc_issue_date"}},
			{Patterns: []string{`车辆制造企业名称`}, ValueKeys: []string{"vc_manu_enterprise"}},
			{
				Patterns:  []string{`车辆品牌/车辆名称`, `车辆品牌`, `车辆名称`},
				ValueKeys: []string{"vc_brands", "vc_type"},
			},
			{Patterns: []string{`车辆型号`}, ValueKeys: []string{"vc_model_no"}},
			{Patterns: []string{`车辆识别代号/车架号`, `车架号`}, ValueKeys: []string{"vc_vin"}},
			{Patterns: []string{`车身颜色`}, ValueKeys: []string{"vc_color"}},
			{Patterns: []string{`发动机型号`}, ValueKeys: []string{"vc_engine_model_no"}},
			{Patterns: []string{`发动机号`}, ValueKeys: []string{"vc_engineno"}},
			{Patterns: []string{`燃料种类`, `燃料类型`}, ValueKeys: []string{"vc_fuel"}},
			{
				Patterns:  []string{`排量和功率`, `排量/功率`, `排量和功率（ml/kW）`},
				ValueKeys: []string{"vc_displace", "vc_power"},
			},
			{Patterns: []string{`排放标准`}, ValueKeys: []string{"vc_emission_standard"}},
			{Patterns: []string{`油耗`}, ValueKeys: []string{"vc_fuel_consumption"}},
			{
				Patterns:  []string{`外廓尺寸`, `外阔尺寸`},
				ValueKeys: []string{"vc_overall_dimensions", "vc_overall_dimensions", "vc_overall_dimensions"},
			},
			{Patterns: []string{`轮胎数`}, ValueKeys: []string{"vc_tire_count"}},
			{Patterns: []string{`轮胎规格`}, ValueKeys: []string{"vc_tyre_size"}},
			{
				Patterns:  []string{`轮距`, `轮距（前/后）`, `轮距\(前/后\)`},
				ValueKeys: []string{"vc_track", "vc_track"},
			},
			{Patterns: []string{`轴距`}, ValueKeys: []string{"vc_wheelbase"}},
			{Patterns: []string{`轴荷`}, ValueKeys: []string{"vc_axle_load"}},
			{Patterns: []string{`轴数`}, ValueKeys: []string{"vc_axle_count"}},
			{Patterns: []string{`转向形式`}, ValueKeys: []string{"vc_steering_type"}},
			{Patterns: []string{`总质量`}, ValueKeys: []string{"vc_totalw"}},
			{Patterns: []string{`整备质量`}, ValueKeys: []string{"vc_curbw"}},
			{Patterns: []string{`额定载客`}, ValueKeys: []string{"vc_carrying_num"}},
			{Patterns: []string{`最高设计车速`}, ValueKeys: []string{"vc_max_speed"}},
			{Patterns: []string{`车辆制造日期`}, ValueKeys: []string{"vc_manu_date"}},
		},
	}
}
