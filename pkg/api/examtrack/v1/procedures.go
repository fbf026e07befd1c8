package examtrackv1

// Fully-qualified service names.
const (
	ExamServiceName      = "examtrack.v1.ExamService"
	BookServiceName      = "examtrack.v1.BookService"
	GoalServiceName      = "examtrack.v1.GoalService"
	StudyServiceName     = "examtrack.v1.StudyService"
	ProfileServiceName   = "examtrack.v1.ProfileService"
	DashboardServiceName = "examtrack.v1.DashboardService"
)

// Procedure paths, "/<service>/<method>".
const (
	ExamServiceSubmitExamProcedure = "/" + ExamServiceName + "/SubmitExam"
	ExamServiceEditExamProcedure   = "/" + ExamServiceName + "/EditExam"
	ExamServiceDeleteExamProcedure = "/" + ExamServiceName + "/DeleteExam"
	ExamServiceGetExamProcedure    = "/" + ExamServiceName + "/GetExam"
	ExamServiceListExamsProcedure  = "/" + ExamServiceName + "/ListExams"

	BookServiceAddBookProcedure              = "/" + BookServiceName + "/AddBook"
	BookServiceUpdateBookProgressProcedure   = "/" + BookServiceName + "/UpdateBookProgress"
	BookServiceDeleteBookProcedure           = "/" + BookServiceName + "/DeleteBook"
	BookServiceListBooksProcedure            = "/" + BookServiceName + "/ListBooks"
	BookServiceGetBookProcedure              = "/" + BookServiceName + "/GetBook"
	BookServiceAddUnitProcedure              = "/" + BookServiceName + "/AddUnit"
	BookServiceToggleUnitCompletionProcedure = "/" + BookServiceName + "/ToggleUnitCompletion"
	BookServiceDeleteUnitProcedure           = "/" + BookServiceName + "/DeleteUnit"
	BookServiceAddTestProcedure              = "/" + BookServiceName + "/AddTest"
	BookServiceUpdateTestProcedure           = "/" + BookServiceName + "/UpdateTest"
	BookServiceDeleteTestProcedure           = "/" + BookServiceName + "/DeleteTest"

	GoalServiceAddGoalProcedure            = "/" + GoalServiceName + "/AddGoal"
	GoalServiceListGoalsProcedure          = "/" + GoalServiceName + "/ListGoals"
	GoalServiceUpdateGoalProgressProcedure = "/" + GoalServiceName + "/UpdateGoalProgress"
	GoalServiceToggleGoalCompleteProcedure = "/" + GoalServiceName + "/ToggleGoalComplete"
	GoalServiceDeleteGoalProcedure         = "/" + GoalServiceName + "/DeleteGoal"

	StudyServiceAddSessionProcedure    = "/" + StudyServiceName + "/AddSession"
	StudyServiceListSessionsProcedure  = "/" + StudyServiceName + "/ListSessions"
	StudyServiceTodayStatsProcedure    = "/" + StudyServiceName + "/TodayStats"
	StudyServiceDeleteSessionProcedure = "/" + StudyServiceName + "/DeleteSession"

	ProfileServiceGetProfileProcedure     = "/" + ProfileServiceName + "/GetProfile"
	ProfileServiceSetStudyFieldProcedure  = "/" + ProfileServiceName + "/SetStudyField"
	ProfileServiceSubjectOptionsProcedure = "/" + ProfileServiceName + "/SubjectOptions"
	ProfileServiceTopicsProcedure         = "/" + ProfileServiceName + "/Topics"

	DashboardServiceGetDashboardProcedure = "/" + DashboardServiceName + "/GetDashboard"
)

// ServiceNames lists every service for health reporting.
var ServiceNames = []string{
	ExamServiceName,
	BookServiceName,
	GoalServiceName,
	StudyServiceName,
	ProfileServiceName,
	DashboardServiceName,
}
