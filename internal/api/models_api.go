// internal/api/models_api.go
// Wire DTOs for the NextCut backend. Optional fields are pointers, the
// mapper turns them into domain values.
package api

type apiError struct {
	Error string `json:"error"`
	Msg   string `json:"msg"`
}

type apiBarberRef struct {
	ID   int64    `json:"id"`
	Name string   `json:"name"`
	Lat  *float64 `json:"lat"`
	Long *float64 `json:"long"`
}

type apiQueueStatus struct {
	InQueue           bool          `json:"inQueue"`
	QueuePosition     *int          `json:"queuePosition"`
	Barber            *apiBarberRef `json:"barber"`
	EnteredAt         *string       `json:"enteredAt"`
	Service           *string       `json:"service"`
	EstimatedWaitTime *int          `json:"estimatedWaitTime"`
}

type queueStatusResp struct {
	Msg         string         `json:"msg"`
	QueueStatus apiQueueStatus `json:"queueStatus"`
}

type joinQueueReq struct {
	BarberID int64  `json:"barberId"`
	Service  string `json:"service"`
}

type joinQueueResp struct {
	Msg   string `json:"msg"`
	Queue struct {
		ID        int64   `json:"id"`
		EnteredAt *string `json:"enteredAt"`
		BarberID  int64   `json:"barberId"`
		UserID    int64   `json:"userId"`
		Service   *string `json:"service"`
	} `json:"queue"`
}

type leaveQueueResp struct {
	Msg  string `json:"msg"`
	Data *struct {
		RemovedFrom *struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"removedFrom"`
		RemovedAt *string `json:"removedAt"`
	} `json:"data"`
}

type nearbyReq struct {
	Lat    float64 `json:"lat"`
	Long   float64 `json:"long"`
	Radius float64 `json:"radius"`
}

type apiBarber struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	Username          string   `json:"username"`
	Lat               *float64 `json:"lat"`
	Long              *float64 `json:"long"`
	QueueLength       *int     `json:"queueLength"`
	EstimatedWaitTime *int     `json:"estimatedWaitTime"`
}

type nearbyResp struct {
	Msg     string      `json:"msg"`
	Barbers []apiBarber `json:"barbers"`
}

type apiDashboardEntry struct {
	Position  int     `json:"position"`
	QueueID   int64   `json:"queueId"`
	EnteredAt *string `json:"enteredAt"`
	User      struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"user"`
}

type barberQueueResp struct {
	BarberID    int64               `json:"barberId"`
	QueueLength int                 `json:"queueLength"`
	Queue       []apiDashboardEntry `json:"queue"`
}

type removeUserReq struct {
	UserID int64 `json:"userId"`
}

type removeUserResp struct {
	Msg  string `json:"msg"`
	Data struct {
		RemovedUser struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"removedUser"`
		RemovedAt *string `json:"removedAt"`
	} `json:"data"`
}

type apiUser struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

type apiBarberAccount struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Lat      *float64 `json:"lat"`
	Long     *float64 `json:"long"`
}

type authResp struct {
	Msg    string            `json:"msg"`
	Token  string            `json:"token"`
	User   *apiUser          `json:"user"`
	Barber *apiBarberAccount `json:"barber"`
}
