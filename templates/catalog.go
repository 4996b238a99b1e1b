package templates

var defaultCatalog = []Snippet{
	// Basic patterns
	{
		Name:        "Flow Definition",
		Description: "Create a new flow",
		Category:    CategoryBasic,
		Prefix:      "flow",
		Body:        "flow ${1:name} {\n  ${0}\n}",
	},
	{
		Name:        "Repeat Loop",
		Description: "Repeat block N times",
		Category:    CategoryBasic,
		Prefix:      "repeat",
		Body:        "repeat ${1:3} times {\n  ${0}\n}",
	},
	{
		Name:        "Retry Block",
		Description: "Retry on error with count",
		Category:    CategoryBasic,
		Prefix:      "retry",
		Body:        "retry ${1:3} {\n  ${0}\n}",
	},
	{
		Name:        "If Statement",
		Description: "Conditional statement",
		Category:    CategoryBasic,
		Prefix:      "if",
		Body:        "if ${1:condition} {\n  ${0}\n}",
	},
	{
		Name:        "If-Else Statement",
		Description: "Conditional with else branch",
		Category:    CategoryBasic,
		Prefix:      "ifelse",
		Body:        "if ${1:condition} {\n  ${2}\n} else {\n  ${0}\n}",
	},
	{
		Name:        "For Loop",
		Description: "Iterate over range",
		Category:    CategoryBasic,
		Prefix:      "for",
		Body:        "for ${1:i} in range(${2:10}) {\n  ${0}\n}",
	},
	{
		Name:        "While Loop",
		Description: "Loop while condition",
		Category:    CategoryBasic,
		Prefix:      "while",
		Body:        "while ${1:condition} {\n  ${0}\n}",
	},
	{
		Name:        "Try-Catch",
		Description: "Error handling block",
		Category:    CategoryBasic,
		Prefix:      "try",
		Body:        "try {\n  ${1}\n} catch ${2:err} {\n  log(\"error\");\n  ${0}\n}",
	},
	{
		Name:        "Hotkeys Block",
		Description: "Declare control hotkeys",
		Category:    CategoryBasic,
		Prefix:      "hotkeys",
		Body:        "hotkeys {\n  start = \"${1:F5}\";\n  stop = \"${2:F6}\";\n  pause = \"${3:F7}\";\n}",
	},
	{
		Name:        "Interrupt Handler",
		Description: "React to an image appearing at any time",
		Category:    CategoryBasic,
		Prefix:      "interrupt",
		Body:        "interrupt {\n  priority ${1:1} when image \"${2:popup}\" {\n    ${0}\n  }\n}",
	},

	// Game bot patterns
	{
		Name:        "Click Target",
		Description: "Find and click target",
		Category:    CategoryGameBot,
		Prefix:      "clicktarget",
		Body:        "if image_exists(\"${1:button}\") {\n  click(${2:x}, ${3:y});\n  sleep(500ms);\n}",
	},
	{
		Name:        "Combat Loop",
		Description: "Basic combat automation loop",
		Category:    CategoryGameBot,
		Prefix:      "combat",
		Body: "repeat ${1:100} times {\n" +
			"  if image_exists(\"${2:enemy}\") {\n" +
			"    click(${3:x}, ${4:y});\n" +
			"    sleep(200ms);\n" +
			"    hotkey(\"${5:1}\");\n" +
			"    sleep(1s);\n" +
			"  }\n" +
			"  sleep(500ms);\n" +
			"}",
	},
	{
		Name:        "Resource Gathering",
		Description: "Gather resources in game",
		Category:    CategoryGameBot,
		Prefix:      "gather",
		Body: "flow gather_resources {\n" +
			"  repeat ${1:50} times {\n" +
			"    if image_exists(\"${2:ore}\") {\n" +
			"      click(${3:x}, ${4:y});\n" +
			"      sleep(3s);\n" +
			"    } else {\n" +
			"      hotkey(\"w\");\n" +
			"      sleep(2s);\n" +
			"    }\n" +
			"  }\n" +
			"}",
	},
	{
		Name:        "Anti-AFK",
		Description: "Keep the session alive with periodic input",
		Category:    CategoryGameBot,
		Prefix:      "antiafk",
		Body: "flow anti_afk {\n" +
			"  while true {\n" +
			"    hotkey(\"${1:w}\");\n" +
			"    sleep(100ms);\n" +
			"    sleep(${2:30s});\n" +
			"  }\n" +
			"}",
	},

	// Error handling patterns
	{
		Name:        "Retry with Fallback",
		Description: "Retry with fallback action",
		Category:    CategoryErrorHandling,
		Prefix:      "retryfallback",
		Body:        "retry ${1:3} {\n  ${2}\n} else {\n  log(\"retry failed, using fallback\");\n  ${0}\n}",
	},
	{
		Name:        "Safe Click",
		Description: "Click with existence check",
		Category:    CategoryErrorHandling,
		Prefix:      "safeclick",
		Body:        "if image_exists(\"${1:button}\") {\n  click(${2:x}, ${3:y});\n} else {\n  log(\"target not found: ${1:button}\");\n  ${0}\n}",
	},
	{
		Name:        "Wait with Timeout",
		Description: "Wait for target with timeout",
		Category:    CategoryErrorHandling,
		Prefix:      "waittimeout",
		Body:        "$found = wait_image(\"${1:target}\", timeout=${2:10s});\nif $found {\n  ${3}\n} else {\n  ${0}\n}",
	},

	// Utility patterns
	{
		Name:        "Screen Region",
		Description: "Search in specific region",
		Category:    CategoryUtility,
		Prefix:      "region",
		Body:        "$found = find_image(\"${1:target}\", roi=[${2:x}, ${3:y}, ${4:width}, ${5:height}]);",
	},
	{
		Name:        "Run Sub-Flow",
		Description: "Call another flow",
		Category:    CategoryUtility,
		Prefix:      "runflow",
		Body:        "run_flow(\"${1:flow_name}\");",
	},
	{
		Name:        "Label and Goto",
		Description: "Looping with a labeled jump",
		Category:    CategoryUtility,
		Prefix:      "labelgoto",
		Body:        "label ${1:start}:\n${0}\ngoto ${1:start};",
	},
}
