package scheduler

import "fmt"

// fallbackReport replaces a missing report so downstream consumers always
// have text to show.
const fallbackReport = "The AI model failed to generate a report, but the timetable (if any) is provided."

// systemPrompt instructs the model to build the weekly grid and immediately
// report on it. The fallback protocol keeps hard data contradictions out of
// the transport layer: the model answers with an empty timetable and a
// report instead of failing.
const systemPrompt = `You are a master scheduler AI. Your task is to generate a conflict-free, 6-day (Monday to Saturday) weekly academic timetable and then immediately write a detailed analysis report on the schedule you just created.

You will be given student data, faculty data, course data, room data and scheduling constraints as JSON documents.

The timetable runs for 7 time slots per day: "09:00 - 10:00", "10:00 - 11:00", "11:00 - 12:00", "12:00 - 01:00", "02:00 - 03:00", "03:00 - 04:00", and "04:00 - 05:00".

**Your Task is a two-step process:**

**Step 1: Generate the Timetable**
Adhere to these rules with absolute precision:
1.  **No Double Bookings (Highest Priority):** A faculty member, a student (based on their enrolled courses), or a room cannot be in two places at once.
2.  **Constraint Adherence:** Strictly enforce faculty availability, room capacity, course requirements (e.g., labs), and any program-specific time blocks (like internships or teaching practice).
3.  **Create a Dense Schedule:** Your goal is to create a highly utilized and efficient schedule. Fill as many slots as possible. An empty timetable is a failure.
4.  **Conflict Logging:** If a conflict is unavoidable, schedule one class and log the other in the conflicts array. Do not simply leave a slot empty if a conflict is the reason.
5.  **Include Saturday:** The schedule must cover all 6 days from Monday to Saturday.

**Step 2: Generate the Analysis Report**
After generating the timetable, immediately write a detailed analysis report in the report field of the JSON output. This report MUST include:
1.  **Constraint Adherence Verification:** Explicitly confirm how you followed key constraints.
2.  **Faculty Workload Analysis:** Provide a quantitative breakdown of hours assigned to several key faculty members vs. their expected workload.
3.  **Resource Utilization Analysis:** Calculate and state the overall room utilization percentage and identify peak/off-peak hours.
4.  **Actionable Recommendations:** Provide specific suggestions for improvement.

**Fallback Protocol:**
If you encounter a fundamental contradiction in the data that makes schedule generation impossible, you MUST return an empty timetable array and use the report field to explain the exact reason for the failure. **Do not error out.**

**Final Output:**
Your response MUST be a single, valid JSON object containing timetable, conflicts, and report keys.`

// userPrompt lays out the five JSON documents for a single run.
func userPrompt(studentData, facultyData, courseData, roomData, constraints string) string {
	return fmt.Sprintf(`Generate the timetable from the following data.

Student Data:
%s

Faculty Data:
%s

Course Data:
%s

Room Data:
%s

Scheduling Constraints:
%s`, studentData, facultyData, courseData, roomData, constraints)
}

// responseSchema constrains the model output to the outcome contract.
func responseSchema() map[string]interface{} {
	entry := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"day":        map[string]interface{}{"type": "string"},
			"timeSlot":   map[string]interface{}{"type": "string"},
			"courseCode": map[string]interface{}{"type": "string"},
			"courseName": map[string]interface{}{"type": "string"},
			"faculty":    map[string]interface{}{"type": "string"},
			"room":       map[string]interface{}{"type": "string"},
			"program":    map[string]interface{}{"type": "string"},
		},
		"required": []string{"day", "timeSlot", "courseCode", "faculty", "room"},
	}
	conflict := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"day":         map[string]interface{}{"type": "string"},
			"timeSlot":    map[string]interface{}{"type": "string"},
			"courseCode":  map[string]interface{}{"type": "string"},
			"description": map[string]interface{}{"type": "string"},
		},
		"required": []string{"description"},
	}
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"timetable": map[string]interface{}{"type": "array", "items": entry},
			"conflicts": map[string]interface{}{"type": "array", "items": conflict},
			"report":    map[string]interface{}{"type": "string"},
		},
		"required": []string{"timetable", "conflicts", "report"},
	}
}
