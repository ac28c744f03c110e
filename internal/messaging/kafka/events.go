package kafka

// TopicOrderEvents — topic для событий жизненного цикла заказов.
const TopicOrderEvents = "orders.order.events"
