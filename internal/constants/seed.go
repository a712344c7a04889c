package constants

import "production-scheduler/internal/storage"

const (
	DefaultShiftStart  = "08:00"
	DefaultShiftEnd    = "16:00"
	DefaultWorkingDays = "Mon,Tue,Wed,Thu,Fri,Sat"
)

// станки цеха KFT, процесс совпадает с названием этапа в BOM
var SeedMachines = []storage.Machine{
	seedMachine("KFT/MACH/LTXM-1", "COMPOUND MIXING"),
	seedMachine("KFT/MACH/LTXM-2", "COMPOUND MIXING"),
	seedMachine("KFT/MACH/TFG-1", "TUFTING"),
	seedMachine("KFT/MACH/TFG-2", "TUFTING"),
	seedMachine("KFT/MACH/TFG-3", "TUFTING"),
	seedMachine("KFT/MACH/TFG-4", "TUFTING"),
	seedMachine("KFT/MACH/TFG-5", "TUFTING"),
	seedMachine("KFT/MACH/TFG-6", "TUFTING"),
	seedMachine("KFT/MACH/TFG-7", "TUFTING"),
	seedMachine("KFT/MACH/TFG-8", "TUFTING"),
	seedMachine("KFT/MACH/CT-1", "TUFTING"),
	seedMachine("KFT/MACH/CT-2", "CUTTING"),
	seedMachine("KFT/MACH/CT-3", "CUTTING"),
	seedMachine("KFT/MACH/CT-4", "CUTTING"),
	seedMachine("KFT/MACH/CT-5", "CUTTING"),
	seedMachine("KFT/MACH/CT-6", "CUTTING"),
	seedMachine("KFT/MACH/CT-7", "CUTTING"),
	seedMachine("KFT/MACH/PR-1", "PRINTING"),
	seedMachine("KFT/MACH/PR-2", "PRINTING"),
	seedMachine("KFT/MACH/PR-3", "PRINTING"),
	seedMachine("KFT/MACH/PKG-1", "LABELLING & PACKING"),
	seedMachine("KFT/MACH/PKG-2", "LABELLING & PACKING"),
	seedMachine("KFT/MACH/PKG-3", "LABELLING & PACKING"),
}

var SeedBOMs = []storage.BOM{
	{
		OutputItem: "KERA#050623-11",
		OutputQty:  1,
		UOM:        "PCS",
		Stages: []storage.Stage{
			{
				SequenceNo:             1,
				StageName:              "COMPOUND MIXING",
				MinBatchQuantity:       2000,
				HoursRequiredMinBatch:  0.75,
				UnitMaterialPerProduct: 1,
				Components: []storage.Component{
					{Code: "LTX0001", Qty: 0.2649, UOM: "KGS"},
					{Code: "RM-LM-LS03", Qty: 0.6519, UOM: "KGS"},
					{Code: "IRM-LM-DV03", Qty: 0.0141, UOM: "KGS"},
					{Code: "IRM-LM-AS04", Qty: 0.0011, UOM: "KGS"},
					{Code: "IRM-LM-17R05", Qty: 0.0026, UOM: "KGS"},
					{Code: "IRM-LM-22R06", Qty: 0.0079, UOM: "KGS"},
					{Code: "RM-PB- BK28", Qty: 0.0044, UOM: "KGS"},
					{Code: "RM-CAPFS", Qty: 0.0033, UOM: "KGS"},
					{Code: "RM-LTXCMPD", Qty: 0.0088, UOM: "KGS"},
				},
			},
			{
				SequenceNo:             2,
				StageName:              "TUFTING",
				MinBatchQuantity:       35,
				HoursRequiredMinBatch:  1,
				UnitMaterialPerProduct: 1,
				Components: []storage.Component{
					{Code: "BKLTX_COMPD", Qty: 4.5443, UOM: "KGS"},
					{Code: "RM-LM-JN13", Qty: 1, UOM: "SQM"},
					{Code: "RMCY01", Qty: 2.6548, UOM: "KGS"},
				},
			},
			{
				SequenceNo:             3,
				StageName:              "CUTTING",
				MinBatchQuantity:       200,
				HoursRequiredMinBatch:  0.5,
				UnitMaterialPerProduct: 1,
				Components: []storage.Component{
					{Code: "BLLBMR1.887015", Qty: 0.3621, UOM: "SQM"},
				},
			},
			{
				SequenceNo:             4,
				StageName:              "PRINTING",
				MinBatchQuantity:       200,
				HoursRequiredMinBatch:  6,
				UnitMaterialPerProduct: 1,
				Components: []storage.Component{
					{Code: "BKLBM-467615", Qty: 1, UOM: "PCS"},
					{Code: "KAPFM", Qty: 0.05, UOM: "KGS"},
					{Code: "KAPFYL", Qty: 0.0286, UOM: "KGS"},
					{Code: "KAPFGR", Qty: 0.0186, UOM: "KGS"},
					{Code: "KAPFBG", Qty: 0.0414, UOM: "KGS"},
					{Code: "KAPFV", Qty: 0.0357, UOM: "KGS"},
					{Code: "KAPFBR", Qty: 0.0271, UOM: "KGS"},
					{Code: "KAPFLBL", Qty: 0.03, UOM: "KGS"},
					{Code: "KASLSUPWHT", Qty: 0.05, UOM: "KGS"},
					{Code: "KAPFDBL", Qty: 0.0257, UOM: "KGS"},
					{Code: "KADBBK", Qty: 0.0129, UOM: "KGS"},
				},
			},
			{
				SequenceNo:             5,
				StageName:              "LABELLING & PACKING",
				MinBatchQuantity:       200,
				HoursRequiredMinBatch:  1,
				UnitMaterialPerProduct: 1,
				Components: []storage.Component{
					{Code: "KERA#050623-11", Qty: 1, UOM: "PCS"},
					{Code: "UC-311", Qty: 0.06, UOM: "NOS"},
					{Code: "RFID-069", Qty: 1, UOM: "NOS"},
					{Code: "PKG-CA-2", Qty: 1, UOM: "NOS"},
					{Code: "PKG-SF-LD-29", Qty: 0.0298, UOM: "KGS"},
					{Code: "PKG-TP-15", Qty: 2, UOM: "NOS"},
				},
			},
		},
	},
}

func seedMachine(code, process string) storage.Machine {
	return storage.Machine{
		MachineCode: code,
		Name:        code,
		Process:     process,
		ShiftStart:  DefaultShiftStart,
		ShiftEnd:    DefaultShiftEnd,
		WorkingDays: DefaultWorkingDays,
		IsAvailable: true,
	}
}
